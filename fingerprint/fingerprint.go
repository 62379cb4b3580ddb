/*
Copyright (C) 2026  Zewos Contributors

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package fingerprint derives a stable, 32-byte identifier for the host the
// process is running on. It is the "info" half of the HKDF derivation that
// binds encrypted snapshots to the machine that wrote them.
package fingerprint

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/sensors"
	"golang.org/x/crypto/sha3"
)

var (
	once  sync.Once
	value [32]byte
	ferr  error
)

// Get returns the process-wide host fingerprint, computing it once
// (lazily, sync.Once) from read-only host attributes gathered via
// gopsutil. BIOS serial is best-effort: on hosts (commonly containers)
// where it cannot be read, it is simply omitted from the digest input.
func Get() ([32]byte, error) {
	once.Do(func() {
		value, ferr = compute()
	})
	return value, ferr
}

func compute() ([32]byte, error) {
	info, err := host.Info()
	if err != nil {
		return [32]byte{}, fmt.Errorf("fingerprint: host.Info: %w", err)
	}
	cpus, err := cpu.Info()
	if err != nil {
		return [32]byte{}, fmt.Errorf("fingerprint: cpu.Info: %w", err)
	}
	cpuBrand := "unknown-cpu"
	if len(cpus) > 0 {
		cpuBrand = cpus[0].ModelName
	}
	diskTotal := uint64(0)
	if usage, err := disk.Usage("/"); err == nil {
		diskTotal = usage.Total
	}

	componentsDigest := componentsDigest()
	biosSerial := readBIOSSerial()

	material := fmt.Sprintf("%s:%s:%s:%d:%s", info.HostID, cpuBrand, info.OS, diskTotal, componentsDigest)
	if biosSerial != "" {
		material += ":" + biosSerial
	}
	return sha3.Sum256([]byte(material)), nil
}

// componentsDigest hashes the sorted set of hardware sensor/component labels
// gopsutil can enumerate (temperature sensors, on Linux typically one per
// thermal zone or hwmon chip) into a short hex digest. Only the labels are
// hashed, never the readings themselves, since a reading drifts from one
// call to the next and the fingerprint must not. Hosts exposing no sensors
// (again, commonly containers) contribute an empty digest rather than an
// error.
func componentsDigest() string {
	stats, err := sensors.SensorsTemperatures()
	if err != nil || len(stats) == 0 {
		return ""
	}
	labels := make([]string, 0, len(stats))
	for _, s := range stats {
		labels = append(labels, s.SensorKey)
	}
	sort.Strings(labels)
	sum := sha3.Sum256([]byte(strings.Join(labels, ",")))
	return fmt.Sprintf("%x", sum[:8])
}

// readBIOSSerial attempts to read a BIOS/board serial from the common Linux
// sysfs location. It returns "" (never an error) when unreadable, matching
// the spec's "best-effort, optional" treatment of this field.
func readBIOSSerial() string {
	serial, err := readTrimmedFile("/sys/class/dmi/id/product_serial")
	if err != nil {
		return ""
	}
	return serial
}
