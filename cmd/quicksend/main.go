// quicksend transfers files to and from a USB-attached device through the
// adb bridge tool.
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"quickdrop/internal/bridge"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}
	cmd := os.Args[1]
	args := os.Args[2:]

	adbPath, err := bridge.FindADB()
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌ ADB not found!")
		fmt.Fprintln(os.Stderr, "\nInstall it with Homebrew:")
		fmt.Fprintln(os.Stderr, "  brew install android-platform-tools")
		os.Exit(1)
	}
	adb := bridge.NewADB(adbPath, nil)
	ctx := context.Background()

	switch cmd {
	case "status":
		connected, info := adb.Status(ctx)
		if connected {
			fmt.Printf("✅ Device connected: %s\n", info)
		} else {
			fmt.Printf("❌ %s\n", info)
			os.Exit(1)
		}

	case "send":
		if len(args) < 1 {
			fmt.Fprintln(os.Stderr, "usage: quicksend send <file> [destination]")
			os.Exit(2)
		}
		requireDevice(ctx, adb)
		dest := bridge.DefaultRemoteDir
		if len(args) > 1 {
			dest = args[1]
		}
		if err := adb.Push(ctx, args[0], dest); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✅ Done!")

	case "get":
		if len(args) < 1 {
			fmt.Fprintln(os.Stderr, "usage: quicksend get <device_path> [local_dest]")
			os.Exit(2)
		}
		requireDevice(ctx, adb)
		dest := "."
		if len(args) > 1 {
			dest = args[1]
		}
		if err := adb.Pull(ctx, args[0], dest); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✅ Done!")

	case "list":
		requireDevice(ctx, adb)
		path := bridge.DefaultRemoteDir
		if len(args) > 0 {
			path = args[0]
		}
		out, err := adb.List(ctx, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\n📁 Files in %s:\n\n%s", path, out)

	default:
		printHelp()
	}
}

func requireDevice(ctx context.Context, b bridge.Bridge) {
	connected, info := b.Status(ctx)
	if !connected {
		fmt.Fprintf(os.Stderr, "❌ %s\n", info)
		os.Exit(1)
	}
}

func printHelp() {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "⚡ QuickSend - USB file transfer via ADB")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  quicksend send <file> [dest]\tSend file to device")
	fmt.Fprintln(w, "  quicksend get <device_path> [dest]\tDownload from device")
	fmt.Fprintln(w, "  quicksend list [path]\tList files on device")
	fmt.Fprintln(w, "  quicksend status\tCheck connection")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Default device folder: %s\n", bridge.DefaultRemoteDir)
	_ = w.Flush()
}
