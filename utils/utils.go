package utils

import (
	"fmt"
	"math/big"
	"net"
	"os"
	"strconv"
	"time"
)

const timeFormat = "2006/01/02 15:04:05"

// AccessCheck checks whether the file or directory exists
func AccessCheck(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("Not found %s or permision denied", err)
	}
	return nil
}

// ParseIPPort parses an ip:port string, [ipv6]:port included
func ParseIPPort(ipPort string) (net.IP, int) {
	host, portStr, err := net.SplitHostPort(ipPort)
	if err != nil {
		return nil, 0
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return nil, 0
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return nil, 0
	}

	return ip, port
}

// ReadableBigInt returns more readable format for big.Int
func ReadableBigInt(num *big.Int) string {
	hexStr := fmt.Sprintf("%X", num)
	length := len(hexStr)

	format := "0x%s..(%d)"
	cut := 6
	if length > cut {
		return fmt.Sprintf(format, hexStr[0:cut], length)
	}
	return fmt.Sprintf(format, hexStr, length)
}

// TimeToString returns a textual representation of the time, "-" for the zero time
func TimeToString(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(timeFormat)
}
