// Package arptable provides lookups over the operating system ARP cache.
//
// The table is read by invoking the platform arp command and parsing its
// textual output line by line. Lines that do not carry an IPv4/MAC pair are
// skipped, and a missing or misbehaving arp binary degrades to an empty
// table instead of an error.
package arptable
