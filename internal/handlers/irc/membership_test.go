package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrefixedNick(t *testing.T) {
	testCases := []struct {
		entry    string
		wantNick string
		wantPriv privileges
	}{
		{entry: "alice", wantNick: "alice"},
		{entry: "+alice", wantNick: "alice", wantPriv: privileges{voiced: true}},
		{entry: "@alice", wantNick: "alice", wantPriv: privileges{operator: true}},
		{entry: "%alice", wantNick: "alice", wantPriv: privileges{voiced: true}},
		{entry: "~alice", wantNick: "alice", wantPriv: privileges{operator: true}},
		{entry: "&alice", wantNick: "alice", wantPriv: privileges{operator: true}},
		{
			// multi-prefix: op and voice at once
			entry:    "@+alice",
			wantNick: "alice",
			wantPriv: privileges{voiced: true, operator: true},
		},
	}

	for _, tc := range testCases {
		nick, p := parsePrefixedNick(tc.entry)
		assert.Equal(t, tc.wantNick, nick, "entry %q", tc.entry)
		assert.Equal(t, tc.wantPriv, p, "entry %q", tc.entry)
	}
}

func TestSetNamesAndGet(t *testing.T) {
	m := newMembership()
	m.setNames("#conference", "@chair +speaker attendee")

	assert.Equal(t, privileges{operator: true}, m.get("#conference", "chair"))
	assert.Equal(t, privileges{voiced: true}, m.get("#conference", "speaker"))
	assert.Equal(t, privileges{}, m.get("#conference", "attendee"))
	assert.Equal(t, privileges{}, m.get("#conference", "stranger"))
	assert.Equal(t, privileges{}, m.get("#other", "chair"))
}

func TestApplyModeGrantAndRevoke(t *testing.T) {
	m := newMembership()
	m.setNames("#conference", "alice bob")

	m.applyMode("#conference", []string{"+v", "alice"})
	assert.Equal(t, privileges{voiced: true}, m.get("#conference", "alice"))

	m.applyMode("#conference", []string{"+o", "alice"})
	assert.Equal(t, privileges{voiced: true, operator: true}, m.get("#conference", "alice"))

	m.applyMode("#conference", []string{"-o", "alice"})
	assert.Equal(t, privileges{voiced: true}, m.get("#conference", "alice"))

	// Compound change with multiple arguments
	m.applyMode("#conference", []string{"+ov", "bob", "bob"})
	assert.Equal(t, privileges{voiced: true, operator: true}, m.get("#conference", "bob"))

	m.applyMode("#conference", []string{"-ov", "bob", "bob"})
	assert.Equal(t, privileges{}, m.get("#conference", "bob"))
}

func TestApplyModeSkipsUnrelatedArguments(t *testing.T) {
	m := newMembership()
	m.setNames("#conference", "alice")

	// The ban mask must not be mistaken for the +v argument
	m.applyMode("#conference", []string{"+bv", "*!*@spam.example", "alice"})
	assert.Equal(t, privileges{voiced: true}, m.get("#conference", "alice"))

	// +l takes an argument only when setting
	m.applyMode("#conference", []string{"+lo", "50", "alice"})
	assert.Equal(t, privileges{voiced: true, operator: true}, m.get("#conference", "alice"))
}

func TestMembershipChurn(t *testing.T) {
	m := newMembership()
	m.addChannel("#conference")
	m.addNick("#conference", "alice")
	m.applyMode("#conference", []string{"+o", "alice"})

	// Rename keeps privileges
	m.rename("alice", "alice_away")
	assert.Equal(t, privileges{operator: true}, m.get("#conference", "alice_away"))
	assert.Equal(t, privileges{}, m.get("#conference", "alice"))

	// Part drops the member
	m.removeNick("#conference", "alice_away")
	assert.Equal(t, privileges{}, m.get("#conference", "alice_away"))

	// Quit drops the member from every channel
	m.addChannel("#hallway")
	m.addNick("#conference", "bob")
	m.addNick("#hallway", "bob")
	m.removeEverywhere("bob")
	assert.Equal(t, privileges{}, m.get("#conference", "bob"))
	assert.Equal(t, privileges{}, m.get("#hallway", "bob"))
}

func TestNickFromSource(t *testing.T) {
	assert.Equal(t, "alice", nickFromSource("alice!user@host"))
	assert.Equal(t, "alice", nickFromSource("alice"))
}

func TestHostOnly(t *testing.T) {
	assert.Equal(t, "irc.example.net", hostOnly("irc.example.net:6697"))
	assert.Equal(t, "irc.example.net", hostOnly("irc.example.net"))
}
