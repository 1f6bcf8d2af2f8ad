//go:build windows

package tracker

import (
	"path/filepath"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetWindowThreadProcessID = user32.NewProc("GetWindowThreadProcessId")
)

const windowTitleMax = 256

// OSSampler resolves the foreground window and its owning process through
// the win32 API.
type OSSampler struct{}

// NewOSSampler returns the platform focus sampler.
func NewOSSampler() Sampler {
	return OSSampler{}
}

func (OSSampler) Sample() (app, title string, ok bool) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return "", "", false
	}

	var pid uint32

	_, _, _ = procGetWindowThreadProcessID.Call(
		hwnd,
		uintptr(unsafe.Pointer(&pid)),
	)

	if pid == 0 {
		return "", "", false
	}

	app, err := processImageName(pid)
	if err != nil {
		return "", "", false
	}

	return app, windowTitle(hwnd), true
}

func windowTitle(hwnd uintptr) string {
	buf := make([]uint16, windowTitleMax)

	n, _, _ := procGetWindowTextW.Call(
		hwnd,
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
	)
	if n == 0 {
		return ""
	}

	return syscall.UTF16ToString(buf[:n])
}

func processImageName(pid uint32) (string, error) {
	handle, err := windows.OpenProcess(
		windows.PROCESS_QUERY_LIMITED_INFORMATION,
		false,
		pid,
	)
	if err != nil {
		return "", err
	}
	defer windows.CloseHandle(handle)

	buf := make([]uint16, windows.MAX_PATH)
	size := uint32(len(buf))

	err = windows.QueryFullProcessImageName(handle, 0, &buf[0], &size)
	if err != nil {
		return "", err
	}

	return filepath.Base(syscall.UTF16ToString(buf[:size])), nil
}
