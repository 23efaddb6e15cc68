//go:build windows

// Package winproc provides process snapshots and name/ancestry matching.
package winproc

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// SystemLister reads process snapshots from the Windows toolhelp API.
type SystemLister struct{}

// NewLister returns a process lister backed by the OS.
func NewLister() Lister {
	return &SystemLister{}
}

// Processes returns a snapshot of all running processes.
func (s *SystemLister) Processes() ([]Process, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, fmt.Errorf("CreateToolhelp32Snapshot: %w", err)
	}
	defer windows.CloseHandle(snap)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	if err := windows.Process32First(snap, &entry); err != nil {
		return nil, fmt.Errorf("Process32First: %w", err)
	}

	var procs []Process
	for {
		procs = append(procs, Process{
			PID:  entry.ProcessID,
			PPID: entry.ParentProcessID,
			Name: windows.UTF16ToString(entry.ExeFile[:]),
		})
		if err := windows.Process32Next(snap, &entry); err != nil {
			break
		}
	}
	return procs, nil
}
