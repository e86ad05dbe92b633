//go:build linux || darwin

package interaction

import "golang.org/x/sys/unix"

// enableRawMode turns off echo and line buffering on kr.fd. Signals stay
// enabled so Ctrl+C still interrupts.
func (kr *KeyboardReader) enableRawMode() error {
	saved, err := unix.IoctlGetTermios(kr.fd, ioctlGetTermios)
	if err != nil {
		return err
	}

	raw := *saved
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN
	raw.Cflag |= unix.CS8
	raw.Cc[unix.VMIN], raw.Cc[unix.VTIME] = 1, 0
	if err := unix.IoctlSetTermios(kr.fd, ioctlSetTermios, &raw); err != nil {
		return err
	}

	fd := kr.fd
	kr.restore = func() error { return unix.IoctlSetTermios(fd, ioctlSetTermios, saved) }
	return nil
}
