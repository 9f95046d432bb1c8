package arptable

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

const unixArpOutput = `? (192.168.1.1) at 04:d9:f5:11:22:33 on en0 ifscope [ethernet]
? (192.168.1.5) at AA-BB-CC-DD-EE-FF on en0 ifscope [ethernet]
? (192.168.1.9) at (incomplete) on en0 ifscope [ethernet]
? (10.0.0.7) at 0:1f:f3:aa:bb:c on en1 ifscope [ethernet]
? (224.0.0.251) at 1:0:5e:0:0:fb on en0 ifscope permanent [ethernet]`

const windowsArpOutput = `
Interface: 192.168.1.100 --- 0xa
  Internet Address      Physical Address      Type
  192.168.1.1           ab-cd-ef-ab-cd-ef     dynamic
  192.168.1.255         ff-ff-ff-ff-ff-ff     static`

// stubArpDump replaces the arp command invocation for the duration of a test.
func stubArpDump(t *testing.T, output string, err error) {
	t.Helper()
	orig := arpDump
	arpDump = func(ctx context.Context) (io.Reader, error) {
		if err != nil {
			return nil, err
		}
		return strings.NewReader(output), nil
	}
	t.Cleanup(func() { arpDump = orig })
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "unix format",
			input: unixArpOutput,
			want: []string{
				"192.168.1.1 04:d9:f5:11:22:33",
				"192.168.1.5 aa:bb:cc:dd:ee:ff",
				"10.0.0.7 00:1f:f3:aa:bb:0c",
				"224.0.0.251 01:00:5e:00:00:fb",
			},
		},
		{
			name:  "windows format",
			input: windowsArpOutput,
			want: []string{
				"192.168.1.1 ab:cd:ef:ab:cd:ef",
				"192.168.1.255 ff:ff:ff:ff:ff:ff",
			},
		},
		{
			name:  "dashed mixed case pair",
			input: "192.168.1.5   AA-BB-CC-DD-EE-FF",
			want:  []string{"192.168.1.5 aa:bb:cc:dd:ee:ff"},
		},
		{
			name:  "empty output",
			input: "",
			want:  nil,
		},
		{
			name:  "garbled output",
			input: "No ARP Entries Found\n\t\nrandom text without addresses",
			want:  nil,
		},
		{
			name: "hostname after ip is not a mac",
			input: `192.168.1.1 gateway.local
192.168.1.2 deadbeefcafe`,
			want: nil,
		},
		{
			name:  "out of range octets rejected",
			input: "300.168.1.1 aa:bb:cc:dd:ee:ff",
			want:  nil,
		},
		{
			name:  "ipv6 neighbors skipped",
			input: "fe80::1%en0 (fe80::1%en0) at aa:bb:cc:dd:ee:ff on en0",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := Parse(strings.NewReader(tt.input))
			if len(entries) != len(tt.want) {
				t.Fatalf("Parse() returned %d entries, want %d: %v", len(entries), len(tt.want), entries)
			}
			for i, entry := range entries {
				if entry.String() != tt.want[i] {
					t.Errorf("entry[%d] = %q, want %q", i, entry.String(), tt.want[i])
				}
			}
		})
	}
}

func TestNormalizeMAC(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "dashed upper case",
			input: "AA-BB-CC-DD-EE-FF",
			want:  "aa:bb:cc:dd:ee:ff",
		},
		{
			name:  "mixed case colons",
			input: "Aa:bB:cC:Dd:Ee:fF",
			want:  "aa:bb:cc:dd:ee:ff",
		},
		{
			name:  "already canonical is a no-op",
			input: "aa:bb:cc:dd:ee:ff",
			want:  "aa:bb:cc:dd:ee:ff",
		},
		{
			name:  "bsd stripped zeros",
			input: "0:1f:f3:aa:bb:c",
			want:  "00:1f:f3:aa:bb:0c",
		},
		{
			name:  "surrounding whitespace",
			input: "  aa:bb:cc:dd:ee:ff\n",
			want:  "aa:bb:cc:dd:ee:ff",
		},
		{
			name:    "not a mac",
			input:   "gateway.local",
			wantErr: true,
		},
		{
			name:    "too few groups",
			input:   "aa:bb:cc:dd:ee",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeMAC(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMAC) {
					t.Fatalf("NormalizeMAC(%q) error = %v, want ErrInvalidMAC", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeMAC(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeMAC(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeMACIdempotent(t *testing.T) {
	once, err := NormalizeMAC("AA-BB-CC-DD-EE-FF")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	twice, err := NormalizeMAC(once)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if once != twice {
		t.Errorf("normalization not idempotent: %q != %q", once, twice)
	}
}

func TestList(t *testing.T) {
	t.Run("command output parsed", func(t *testing.T) {
		stubArpDump(t, unixArpOutput, nil)
		entries := List(context.Background())
		if len(entries) != 4 {
			t.Fatalf("List() returned %d entries, want 4", len(entries))
		}
	})

	t.Run("command failure yields empty table", func(t *testing.T) {
		stubArpDump(t, "", errors.New("exec: \"arp\": executable file not found in $PATH"))
		if entries := List(context.Background()); len(entries) != 0 {
			t.Fatalf("List() returned %d entries, want 0", len(entries))
		}
	})

	t.Run("empty output yields empty table", func(t *testing.T) {
		stubArpDump(t, "", nil)
		if entries := List(context.Background()); len(entries) != 0 {
			t.Fatalf("List() returned %d entries, want 0", len(entries))
		}
	})
}

func TestIPForMAC(t *testing.T) {
	// first pair wins when the same MAC maps to several IPs
	const output = `? (192.168.1.5) at aa:bb:cc:dd:ee:ff on en0
? (192.168.1.6) at aa:bb:cc:dd:ee:ff on en0
? (192.168.1.7) at 11:22:33:44:55:66 on en0`

	tests := []struct {
		name    string
		target  string
		want    string
		wantErr error
	}{
		{
			name:   "exact match",
			target: "11:22:33:44:55:66",
			want:   "192.168.1.7",
		},
		{
			name:   "dashed upper case query",
			target: "AA-BB-CC-DD-EE-FF",
			want:   "192.168.1.5",
		},
		{
			name:    "miss",
			target:  "00:11:22:33:44:55",
			wantErr: ErrMACNotFound,
		},
		{
			name:    "invalid query",
			target:  "not-a-mac",
			wantErr: ErrInvalidMAC,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubArpDump(t, output, nil)
			ip, err := IPForMAC(context.Background(), tt.target)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("IPForMAC(%q) error = %v, want %v", tt.target, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("IPForMAC(%q) unexpected error: %v", tt.target, err)
			}
			if ip.String() != tt.want {
				t.Errorf("IPForMAC(%q) = %s, want %s", tt.target, ip, tt.want)
			}
		})
	}

	t.Run("unreadable table reports not found", func(t *testing.T) {
		stubArpDump(t, "", errors.New("exit status 1"))
		_, err := IPForMAC(context.Background(), "aa:bb:cc:dd:ee:ff")
		if !errors.Is(err, ErrMACNotFound) {
			t.Fatalf("IPForMAC() error = %v, want ErrMACNotFound", err)
		}
	})
}
