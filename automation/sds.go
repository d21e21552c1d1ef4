package automation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DownloadSDS opens the compound's safety page in a headless browser and
// saves the SDS document to saveDir. Returns the path of the saved file.
// Some suppliers gate the document behind scripted viewers, which is why
// this drives a real browser instead of a plain HTTP fetch.
func DownloadSDS(baseURL, compound, saveDir string) (string, error) {
	if _, err := os.Stat(saveDir); os.IsNotExist(err) {
		if err := os.MkdirAll(saveDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create SDS folder: %v", err)
		}
	}

	u := launcher.New().
		Headless(true).
		Leakless(false).
		MustLaunch()

	browser := rod.New().ControlURL(u).MustConnect()
	defer browser.MustClose()

	pageURL := fmt.Sprintf("%s/compound/%s#section=Safety-and-Hazards",
		strings.TrimSuffix(baseURL, "/"), compound)
	fmt.Println("Opening safety page:", pageURL)
	page := browser.MustPage(pageURL)
	page.MustWaitStable()

	wait := browser.MustWaitDownload()

	go page.MustHandleDialog()

	fmt.Println("Looking for the download control...")
	clicked := false
	selectors := []string{
		"a[href*='sds']",
		"a[download]",
		"button",
		"a",
	}
	for _, sel := range selectors {
		if el, err := page.ElementR(sel, "(?i)download|sds"); err == nil {
			el.MustClick()
			clicked = true
			break
		}
	}
	if !clicked {
		return "", fmt.Errorf("no download control found on the safety page")
	}

	fmt.Println("Waiting for the download...")
	var fileData []byte
	done := make(chan struct{})
	go func() {
		defer func() { _ = recover() }()
		fileData = wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(60 * time.Second):
		return "", fmt.Errorf("SDS download timed out")
	}

	if len(fileData) == 0 {
		return "", fmt.Errorf("SDS download was empty")
	}

	fileName := sanitizeFileName(compound) + "_sds.pdf"
	savePath := filepath.Join(saveDir, fileName)
	if err := os.WriteFile(savePath, fileData, 0644); err != nil {
		return "", fmt.Errorf("failed to save SDS file: %v", err)
	}

	fmt.Println("Saved SDS to", savePath)
	return savePath, nil
}

func sanitizeFileName(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", " ", "_")
	return replacer.Replace(strings.TrimSpace(name))
}
