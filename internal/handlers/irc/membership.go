package irc

import (
	"strings"
	"sync"
)

// privileges holds the channel-level capability flags the core
// consumes. Founder/admin/op prefixes all count as operator; halfop
// counts as voice.
type privileges struct {
	voiced   bool
	operator bool
}

const (
	operatorPrefixes = "~&@"
	voicePrefixes    = "%+"
)

// membership tracks who is on which channel with which privileges,
// fed from NAMES replies and MODE/JOIN/PART/KICK/QUIT/NICK traffic.
// It is the privilege oracle the interpreter reads through, one
// lookup per inbound event.
type membership struct {
	mu       sync.RWMutex
	channels map[string]map[string]privileges
}

func newMembership() *membership {
	return &membership{
		channels: make(map[string]map[string]privileges),
	}
}

// parsePrefixedNick splits a NAMES entry like "@+alice" into the bare
// nick and its accumulated privileges
func parsePrefixedNick(entry string) (string, privileges) {
	var p privileges
	for len(entry) > 0 {
		switch {
		case strings.ContainsRune(operatorPrefixes, rune(entry[0])):
			p.operator = true
		case strings.ContainsRune(voicePrefixes, rune(entry[0])):
			p.voiced = true
		default:
			return entry, p
		}
		entry = entry[1:]
	}
	return entry, p
}

// setNames records one RPL_NAMREPLY worth of members
func (m *membership) setNames(channel, names string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	members := m.channels[channel]
	if members == nil {
		members = make(map[string]privileges)
		m.channels[channel] = members
	}

	for _, entry := range strings.Fields(names) {
		nick, p := parsePrefixedNick(entry)
		members[nick] = p
	}
}

// applyMode folds a channel MODE change into the tracked privileges.
// params is the MODE argument list after the channel name: the mode
// string followed by its arguments.
func (m *membership) applyMode(channel string, params []string) {
	if len(params) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	members := m.channels[channel]
	if members == nil {
		return
	}

	adding := true
	argIndex := 1
	for _, mode := range params[0] {
		switch mode {
		case '+':
			adding = true
		case '-':
			adding = false
		case 'o', 'v':
			if argIndex >= len(params) {
				return
			}
			nick := params[argIndex]
			argIndex++
			p := members[nick]
			if mode == 'o' {
				p.operator = adding
			} else {
				p.voiced = adding
			}
			members[nick] = p
		case 'b', 'e', 'I', 'k', 'q', 'h':
			// Other argument-taking channel modes: skip their argument
			// so following o/v changes stay aligned
			argIndex++
		case 'l':
			if adding {
				argIndex++
			}
		}
	}
}

// addChannel starts tracking a channel we joined
func (m *membership) addChannel(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels[channel] = make(map[string]privileges)
}

// removeChannel stops tracking a channel we left
func (m *membership) removeChannel(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.channels, channel)
}

// addNick records a member joining a channel, with no privileges
func (m *membership) addNick(channel, nick string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	members := m.channels[channel]
	if members == nil {
		return
	}
	members[nick] = privileges{}
}

// removeNick drops a member from one channel
func (m *membership) removeNick(channel, nick string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if members := m.channels[channel]; members != nil {
		delete(members, nick)
	}
}

// removeEverywhere drops a member from every channel (QUIT)
func (m *membership) removeEverywhere(nick string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, members := range m.channels {
		delete(members, nick)
	}
}

// rename moves a member's privileges to a new nick (NICK)
func (m *membership) rename(oldNick, newNick string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, members := range m.channels {
		if p, ok := members[oldNick]; ok {
			delete(members, oldNick)
			members[newNick] = p
		}
	}
}

// get returns the tracked privileges of a member
func (m *membership) get(channel, nick string) privileges {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.channels[channel][nick]
}
