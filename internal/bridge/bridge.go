// Package bridge drives an external USB device bridge (the adb command-line
// tool) for direct cable transfers. The transfer logic depends only on the
// Bridge capability, so it can be exercised against a fake in tests.
package bridge

import (
	"context"
	"errors"
)

// DefaultRemoteDir is where pushed files land on the device when no
// destination is given.
const DefaultRemoteDir = "/sdcard/Download/"

// ErrBridgeNotFound indicates the external bridge tool could not be located.
var ErrBridgeNotFound = errors.New("bridge tool not found")

// Bridge is the capability for moving files over a USB device bridge.
type Bridge interface {
	// Push copies a local file into remoteDir on the device.
	Push(ctx context.Context, localPath, remoteDir string) error
	// Pull copies remotePath from the device to localDest (file or directory).
	Pull(ctx context.Context, remotePath, localDest string) error
	// List returns the raw directory listing of remoteDir on the device.
	List(ctx context.Context, remoteDir string) (string, error)
	// Status reports whether a device is attached and a human-readable detail:
	// the device serial when connected, the reason when not.
	Status(ctx context.Context) (bool, string)
}
