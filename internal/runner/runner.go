package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/projectdiscovery/arpx/pkg/arptable"
	"github.com/projectdiscovery/arpx/pkg/ifaces"
	"github.com/projectdiscovery/gologger"
	errorutil "github.com/projectdiscovery/utils/errors"
	fileutil "github.com/projectdiscovery/utils/file"
	sliceutil "github.com/projectdiscovery/utils/slice"
	"github.com/rs/xid"
	"github.com/tidwall/gjson"
)

// Runner contains the internal logic of the program
type Runner struct {
	options *Options
}

// NewRunner instance
func NewRunner(options *Options) (*Runner, error) {
	return &Runner{options: options}, nil
}

// snapshot is the json document produced by a single run
type snapshot struct {
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Entries    []entryResult      `json:"entries,omitempty"`
	Lookups    []lookupResult     `json:"lookups,omitempty"`
	Interfaces []ifaces.Interface `json:"interfaces,omitempty"`
}

type entryResult struct {
	IP  string `json:"ip"`
	MAC string `json:"mac"`
}

type lookupResult struct {
	MAC   string `json:"mac"`
	IP    string `json:"ip,omitempty"`
	Found bool   `json:"found"`
}

func newSnapshot() *snapshot {
	return &snapshot{
		ID:        xid.New().String(),
		Timestamp: time.Now().UTC(),
	}
}

// Run the instance
func (r *Runner) Run() error {
	ctx := context.Background()

	switch {
	case r.options.Interfaces:
		return r.listInterfaces()
	case r.options.MAC != "" || r.options.MACsFile != "":
		return r.resolveMACs(ctx)
	default:
		return r.listTable(ctx)
	}
}

// Close the runner instance
func (r *Runner) Close() {}

// listTable prints the full ARP table
func (r *Runner) listTable(ctx context.Context) error {
	entries := arptable.List(ctx)
	if len(entries) == 0 {
		gologger.Info().Msgf("arp table is empty")
	}

	if r.options.JSON {
		snap := newSnapshot()
		for _, entry := range entries {
			snap.Entries = append(snap.Entries, entryResult{IP: entry.IP.String(), MAC: entry.MAC.String()})
		}
		return r.writeJSON(snap)
	}

	var sb strings.Builder
	for _, entry := range entries {
		gologger.Silent().Msgf("%s\t%s", au.BrightCyan(entry.IP.String()), au.BrightWhite(entry.MAC.String()))
		sb.WriteString(entry.String() + "\n")
	}
	return r.writeOutputFile(sb.String())
}

// resolveMACs looks up the IPv4 address for each requested MAC
func (r *Runner) resolveMACs(ctx context.Context) error {
	targets, err := r.targetMACs()
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return errors.New("no mac addresses to resolve")
	}

	snap := newSnapshot()
	var sb strings.Builder
	for _, target := range targets {
		ip, err := arptable.IPForMAC(ctx, target)
		switch {
		case errors.Is(err, arptable.ErrInvalidMAC):
			gologger.Error().Msgf("skipping %q: not a valid mac address", target)
		case errors.Is(err, arptable.ErrMACNotFound):
			mac, _ := arptable.NormalizeMAC(target)
			snap.Lookups = append(snap.Lookups, lookupResult{MAC: mac, Found: false})
			if !r.options.JSON {
				gologger.Warning().Msgf("%s: not found", mac)
			}
		case err != nil:
			return err
		default:
			mac, _ := arptable.NormalizeMAC(target)
			snap.Lookups = append(snap.Lookups, lookupResult{MAC: mac, IP: ip.String(), Found: true})
			if !r.options.JSON {
				gologger.Silent().Msgf("%s\t%s", au.BrightWhite(mac), au.BrightCyan(ip.String()))
				sb.WriteString(mac + " " + ip.String() + "\n")
			}
		}
	}

	if r.options.JSON {
		return r.writeJSON(snap)
	}
	return r.writeOutputFile(sb.String())
}

// listInterfaces prints the local network interface inventory
func (r *Runner) listInterfaces() error {
	list, err := ifaces.List()
	if err != nil {
		return errorutil.NewWithErr(err).Msgf("could not list network interfaces")
	}

	if r.options.JSON {
		snap := newSnapshot()
		snap.Interfaces = list
		return r.writeJSON(snap)
	}

	var sb strings.Builder
	for _, iface := range list {
		state := "down"
		if iface.Up {
			state = "up"
		}
		line := fmt.Sprintf("%s\t%s\t%s\t%s", iface.Name, iface.MAC, state, strings.Join(iface.Addresses, ","))
		gologger.Silent().Msgf("%s", line)
		sb.WriteString(line + "\n")
	}
	return r.writeOutputFile(sb.String())
}

// targetMACs collects the MACs to resolve from the cli flag and the
// optional json input file, deduplicated in input order.
func (r *Runner) targetMACs() ([]string, error) {
	var targets []string
	if r.options.MAC != "" {
		targets = append(targets, r.options.MAC)
	}
	if r.options.MACsFile != "" {
		if !fileutil.FileExists(r.options.MACsFile) {
			return nil, fmt.Errorf("macs file %s does not exist", r.options.MACsFile)
		}
		data, err := os.ReadFile(r.options.MACsFile)
		if err != nil {
			return nil, errorutil.NewWithErr(err).Msgf("could not read macs file %s", r.options.MACsFile)
		}
		targets = append(targets, parseMACsFile(data)...)
	}
	return sliceutil.Dedupe(targets), nil
}

// parseMACsFile accepts {"macs": [...]} documents as well as bare json arrays
func parseMACsFile(data []byte) []string {
	result := gjson.GetBytes(data, "macs")
	if !result.Exists() {
		result = gjson.ParseBytes(data)
	}

	var macs []string
	result.ForEach(func(_, value gjson.Result) bool {
		if mac := strings.TrimSpace(value.String()); mac != "" {
			macs = append(macs, mac)
		}
		return true
	})
	return macs
}

func (r *Runner) writeJSON(snap *snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errorutil.NewWithErr(err).Msgf("could not marshal output")
	}
	gologger.Silent().Msgf("%s", string(data))
	return r.writeOutputFile(string(data) + "\n")
}

func (r *Runner) writeOutputFile(content string) error {
	if r.options.Output == "" || content == "" {
		return nil
	}
	if err := os.WriteFile(r.options.Output, []byte(content), 0644); err != nil {
		return errorutil.NewWithErr(err).Msgf("could not write output file %s", r.options.Output)
	}
	return nil
}
