package utils

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

var rateUnits = []string{"", "K", "M", "G"}

// RateToString formats a bit rate the way bandwidth is written in configuration, e.g 1.50Mb or 10Gb
func RateToString(rate float64) string {
	i := 0
	for rate >= 1000 && i < len(rateUnits)-1 {
		rate /= 1000
		i++
	}
	if int64(rate*100)%100 != 0 {
		return fmt.Sprintf("%.2f%sb", rate, rateUnits[i])
	}
	return fmt.Sprintf("%d%sb", int64(rate), rateUnits[i])
}

// IsIPv4 returns true if IP is of type IPV4
func IsIPv4(ip net.IP) bool {
	// Note: when Creating net.IP using net package e.g via net.ParseIP() it creates
	// IP with a fixed size of net.IPv6Len, so we cannot rely on length.
	return ip.To4() != nil
}

// PathExists returns true if path exists in the system or false if it doesnt
// in case of error, and error is returned
func PathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	} else if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// IPToIPNet coverts IP or CIDR formatted string to *net.IPNet.
// if no CIDR notation, then /32 or /128 mask is assumed for ipv4 and ipv6 respectively.
// "any" and "" are converted to nil.
func IPToIPNet(ip string) (*net.IPNet, error) {
	if ip == "" || ip == "any" {
		return nil, nil
	}
	if !strings.Contains(ip, "/") {
		ipp := net.ParseIP(ip)
		if ipp == nil {
			return nil, fmt.Errorf("failed to parse ip: %s", ip)
		}
		if IsIPv4(ipp) {
			ip += "/32"
		} else {
			ip += "/128"
		}
	}
	_, ipn, err := net.ParseCIDR(ip)
	return ipn, err
}

// SetupSignalHandler returns a context which is cancelled on SIGINT or SIGTERM.
// a second signal terminates the process.
func SetupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	c := make(chan os.Signal, 2)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(1)
	}()
	return ctx
}
