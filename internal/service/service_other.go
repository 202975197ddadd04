//go:build !windows

package service

import "errors"

// ErrUnsupported is returned by the service-manager operations outside Windows
var ErrUnsupported = errors.New("service management is only available on Windows")

// RunService runs the application in the foreground
func RunService(isDebug bool, app *Application) {
	app.Run()
}

func InstallService(exePath string) error {
	return ErrUnsupported
}

func UninstallService() error {
	return ErrUnsupported
}

func StartService() error {
	return ErrUnsupported
}

func StopService() error {
	return ErrUnsupported
}

// IsWindowsService always returns false on non-Windows platforms
func IsWindowsService() (bool, error) {
	return false, nil
}
