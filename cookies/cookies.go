// Package cookies reads a browser-extension cookie export and shapes it
// for injection into a DevTools session.
package cookies

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-rod/rod/lib/proto"

	"github.com/use-agent/sitepdf/models"
)

// Load reads and normalizes the cookie file at path.
//
// A missing file or malformed JSON is fatal for the run and reported as
// a CONFIG_INVALID error; individual records missing name, value, or
// domain are dropped, not fatal.
func Load(path string) ([]*proto.NetworkCookieParam, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, models.NewExportError(
			models.ErrCodeConfig,
			fmt.Sprintf("cookie file %s not readable; export cookies from your browser with an extension like 'Get cookies.txt'", path),
			err,
		)
	}

	var records []models.Cookie
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, models.NewExportError(
			models.ErrCodeConfig,
			fmt.Sprintf("cookie file %s is not a valid JSON cookie export", path),
			err,
		)
	}

	return Normalize(records), nil
}

// Normalize converts export records into DevTools cookie params.
//
// Path defaults to "/" and the extension's float "expirationDate" is
// truncated to whole seconds. Records without name, value, and domain
// are unusable and silently dropped.
func Normalize(records []models.Cookie) []*proto.NetworkCookieParam {
	out := make([]*proto.NetworkCookieParam, 0, len(records))
	for _, c := range records {
		if c.Name == "" || c.Value == "" || c.Domain == "" {
			continue
		}
		path := c.Path
		if path == "" {
			path = "/"
		}
		param := &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
		}
		switch {
		case c.Expires != nil:
			param.Expires = proto.TimeSinceEpoch(int64(*c.Expires))
		case c.ExpirationDate != nil:
			param.Expires = proto.TimeSinceEpoch(int64(*c.ExpirationDate))
		}
		out = append(out, param)
	}
	return out
}
