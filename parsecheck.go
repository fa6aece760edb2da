package main

import (
	"log"

	"github.com/mogaika/anm_browser/pack/anmfile"
	"github.com/mogaika/anm_browser/status"
	"github.com/mogaika/anm_browser/vfs"
)

// parseCheck decodes and indexes every animation file in rootfs and returns
// how many of them failed.
func parseCheck(rootfs vfs.Directory) (int, error) {
	names, err := vfs.ListByExt(rootfs, anmfile.Ext)
	if err != nil {
		return 0, err
	}

	failed := 0
	for i, name := range names {
		status.Progress(float32(i)/float32(len(names)), "Checking %s", name)

		f, err := anmfile.Load(rootfs, name)
		if err != nil {
			log.Printf("[check] %v", err)
			failed++
			continue
		}
		idx, err := anmfile.Index(rootfs, name)
		if err != nil {
			log.Printf("[check] %v", err)
			failed++
			continue
		}

		mismatches := f.CheckIndex(idx)
		for _, m := range mismatches {
			log.Printf("[check] %s: class %q animation %q stores %d frame bytes, encodes to %d",
				name, m.Class, m.Animation, m.Stored, m.Computed)
		}
		if len(mismatches) != 0 {
			failed++
		}
	}

	status.Info("Checked %d files, %d failed", len(names), failed)
	return failed, nil
}
