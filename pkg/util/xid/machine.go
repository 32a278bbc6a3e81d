package xid

import (
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"strconv"
)

// EnvMachineID 显式指定机器 ID（0-65535）的环境变量。
const EnvMachineID = "XID_MACHINE_ID"

var osHostname = os.Hostname

// DefaultMachineID 返回机器 ID：先读 XID_MACHINE_ID，再退回主机名哈希。
func DefaultMachineID() (uint16, error) {
	if s := os.Getenv(EnvMachineID); s != "" {
		id, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return 0, fmt.Errorf("xid: invalid %s value %q: %w", EnvMachineID, s, err)
		}
		return uint16(id), nil
	}
	hostname, err := osHostname()
	if err != nil {
		return 0, fmt.Errorf("xid: resolve hostname: %w", err)
	}
	if hostname == "" {
		return 0, errors.New("xid: empty hostname")
	}
	return hashToMachineID(hostname), nil
}

// hashToMachineID 将 FNV-1a 32 位哈希的高低 16 位异或折叠。
func hashToMachineID(s string) uint16 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	sum := h.Sum32()
	return uint16(sum>>16) ^ uint16(sum&0xffff)
}
