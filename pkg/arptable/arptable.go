package arptable

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os/exec"
	"regexp"
	"strings"

	"github.com/projectdiscovery/gologger"
)

var (
	// ErrMACNotFound is returned when no table entry matches the queried MAC
	ErrMACNotFound = errors.New("mac address not found in arp table")
	// ErrInvalidMAC is returned for queries that are not parseable MAC addresses
	ErrInvalidMAC = errors.New("invalid mac address")
)

// Entry is a single ARP cache mapping between an IPv4 address and a
// link-layer address.
type Entry struct {
	IP  net.IP
	MAC net.HardwareAddr
}

func (e Entry) String() string {
	return e.IP.String() + " " + e.MAC.String()
}

// entryPattern matches an IPv4 dotted quad followed by a MAC token of six
// hex groups separated by ':' or '-'. The optional ") at" between them
// covers the unix "? (ip) at mac" layout next to the columnar windows one.
// Both captures are re-validated with net.ParseIP/net.ParseMAC before an
// entry is emitted, so tokens that merely look address-shaped never make it
// into the table.
var entryPattern = regexp.MustCompile(`(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})\)?\s+(?:at\s+)?((?:[0-9a-fA-F]{1,2}[:-]){5}[0-9a-fA-F]{1,2})`)

// arpDump invokes the platform ARP-dump command and returns its stdout.
// Package variable so tests can substitute fixed output.
var arpDump = func(ctx context.Context) (io.Reader, error) {
	output, err := exec.CommandContext(ctx, "arp", "-a").Output()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(output), nil
}

// List returns every (IP, MAC) pair in the local ARP table, in the order
// the arp command prints them. A missing arp binary, a non-zero exit or
// empty output all degrade to an empty table rather than an error.
func List(ctx context.Context) []Entry {
	r, err := arpDump(ctx)
	if err != nil {
		gologger.Verbose().Msgf("could not read arp table: %s", err)
		return nil
	}
	return Parse(r)
}

// Parse extracts ARP entries from command output, one candidate per line.
// It handles the unix "? (192.168.1.1) at aa:bb:cc:dd:ee:ff ..." format as
// well as the columnar windows one, since both reduce to an IPv4 token
// followed by a MAC token. Non-matching lines are skipped silently.
func Parse(r io.Reader) []Entry {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		match := entryPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		ip := net.ParseIP(match[1])
		if ip == nil || ip.To4() == nil {
			continue
		}

		mac, err := canonicalMAC(match[2])
		if err != nil {
			continue
		}

		entries = append(entries, Entry{IP: ip, MAC: mac})
	}
	return entries
}

// IPForMAC resolves the IPv4 address of the first table entry whose MAC
// equals targetMAC after normalization. It returns ErrMACNotFound on a
// miss, including when the table could not be read at all.
func IPForMAC(ctx context.Context, targetMAC string) (net.IP, error) {
	want, err := NormalizeMAC(targetMAC)
	if err != nil {
		return nil, err
	}

	for _, entry := range List(ctx) {
		if entry.MAC.String() == want {
			return entry.IP, nil
		}
	}
	return nil, ErrMACNotFound
}

// NormalizeMAC returns the canonical lowercase colon-separated form of a
// MAC address, accepting '-' separators and mixed case. Normalizing an
// already-canonical address is a no-op.
func NormalizeMAC(s string) (string, error) {
	mac, err := canonicalMAC(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidMAC, s)
	}
	return mac.String(), nil
}

// canonicalMAC parses a MAC token into its canonical hardware address.
// BSD arp strips leading zeros from hex groups, so single-digit groups are
// re-padded before parsing.
func canonicalMAC(token string) (net.HardwareAddr, error) {
	parts := strings.Split(strings.ReplaceAll(strings.TrimSpace(token), "-", ":"), ":")
	for i, part := range parts {
		if len(part) == 1 {
			parts[i] = "0" + part
		}
	}
	return net.ParseMAC(strings.Join(parts, ":"))
}
