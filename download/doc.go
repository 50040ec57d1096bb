// Package download fetches remote resources to local scratch files.
//
// A [Downloader] is scoped to a destination directory; each fetch
// returns a [File] handle whose Close method removes the backing file,
// so the usual pattern is:
//
//	dl := download.New(".")
//	file, err := dl.Fetch(ctx, url)
//	if err != nil {
//		return err
//	}
//	defer file.Close()
//
//	// use file.Path() while the handle is open
//
// Downloads default to the current directory rather than the system
// temp dir; when provisioning runs inside a Vagrant VM the current
// directory is a synced folder, which keeps scratch files off the VM
// drive.
package download
