package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

const (
	panelSignInPath  = "user/signin-do"
	panelConvertPath = "File-Manager-Ajax?module=fileman_myfiles&section=ajax&page=grid_action_convert"
	flvPlayerURL     = "http://moevideo.net/video.php"
)

// FLVPasteCode returns an HTML snippet embedding the video player for the file behind link
func (c *Client) FLVPasteCode(ctx context.Context, link string, width, height int) (string, error) {
	if width <= 0 {
		width = 600
	}
	if height <= 0 {
		height = 450
	}

	info, err := c.FileInfo(ctx, link)
	if err != nil {
		return "", err
	}
	uid := info.String("uid")
	if uid == "" {
		return "", &EmptyResultError{Route: fileInfoEndpoint.route}
	}

	src := fmt.Sprintf("%s?file=%s&width=%d&height=%d", flvPlayerURL, url.QueryEscape(uid), width, height)
	return fmt.Sprintf(`<script language="JavaScript" type="text/javascript" src="%s"></script>`, src), nil
}

// ConvertVideos asks the web panel to convert uploaded video files. The panel
// is not part of the API: it signs in with the account login and password and
// keeps the session in a cookie jar.
func (c *Client) ConvertVideos(ctx context.Context, uids []string, login, password string) error {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return &TransportError{Op: "convert", Err: err}
	}
	hc := &http.Client{Jar: jar, Timeout: c.requestTimeout}

	signIn := url.Values{
		"log":   {login},
		"pas":   {password},
		"inout": {""},
	}
	// The first sign-in only hands out the session cookies
	for i := 0; i < 2; i++ {
		if err := postPanelForm(ctx, hc, c.panelURL+panelSignInPath, signIn); err != nil {
			return &TransportError{Op: "panel sign-in", Err: err}
		}
	}

	convert := url.Values{
		"path":       {"ROOT/HOME/" + c.project},
		"fileuids[]": uids,
	}
	if err := postPanelForm(ctx, hc, c.panelURL+panelConvertPath, convert); err != nil {
		return &TransportError{Op: "convert", Err: err}
	}

	c.logger.Info().Int("files", len(uids)).Msg("conversion requested")
	return nil
}

func postPanelForm(ctx context.Context, hc *http.Client, target string, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error %d", resp.StatusCode)
	}
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	return nil
}
