// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package compiler

import (
	"path/filepath"
)

func getDefaultRoots(lookup func(string) (string, bool)) []string {
	var dataDirs []string
	if localAppData, ok := lookup("LOCALAPPDATA"); ok && localAppData != "" {
		dataDirs = append(dataDirs, filepath.Join(localAppData, "funfront"))
	}
	if programData, ok := lookup("ProgramData"); ok && programData != "" {
		dataDirs = append(dataDirs, filepath.Join(programData, "funfront"))
	}
	return dataDirs
}
