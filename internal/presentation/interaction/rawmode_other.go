//go:build !linux && !darwin

package interaction

import "errors"

// enableRawMode is unavailable without termios
func (kr *KeyboardReader) enableRawMode() error {
	return errors.New("raw keyboard input is not supported on this platform")
}
