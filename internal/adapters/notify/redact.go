package notify

import (
	"errors"
	"net/url"
)

// redactURLError quita la URL (que lleva el bot token) de un *url.Error.
func redactURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return &url.Error{Op: uerr.Op, URL: "[redacted]", Err: uerr.Err}
	}
	return err
}
