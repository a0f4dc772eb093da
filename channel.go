package loudness

import (
	"fmt"
)

// ChannelRole is the loudspeaker position a channel is reproduced from.
type ChannelRole int

const (
	// RoleUnused excludes the channel from loudness (e.g. LFE).
	RoleUnused ChannelRole = iota
	// RoleLeft is the front left channel (+30°).
	RoleLeft
	// RoleRight is the front right channel (-30°).
	RoleRight
	// RoleCenter is the front centre channel (0°).
	RoleCenter
	// RoleLeftSurround is the left surround channel (+110°).
	RoleLeftSurround
	// RoleRightSurround is the right surround channel (-110°).
	RoleRightSurround
	// RoleDualMono is a mono channel meant for playback on two speakers.
	// It counts twice and is only valid on a single-channel meter.
	RoleDualMono
	// RoleMp060 is the channel at +60°.
	RoleMp060
	// RoleMm060 is the channel at -60°.
	RoleMm060
	// RoleMp090 is the channel at +90°.
	RoleMp090
	// RoleMm090 is the channel at -90°.
	RoleMm090
	// RoleMp135 is the channel at +135°.
	RoleMp135
	// RoleMm135 is the channel at -135°.
	RoleMm135
	// RoleMp180 is the rear centre channel (180°).
	RoleMp180

	roleCount
)

var roleNames = [roleCount]string{
	RoleUnused:        "unused",
	RoleLeft:          "left",
	RoleRight:         "right",
	RoleCenter:        "center",
	RoleLeftSurround:  "left-surround",
	RoleRightSurround: "right-surround",
	RoleDualMono:      "dual-mono",
	RoleMp060:         "M+060",
	RoleMm060:         "M-060",
	RoleMp090:         "M+090",
	RoleMm090:         "M-090",
	RoleMp135:         "M+135",
	RoleMm135:         "M-135",
	RoleMp180:         "M+180",
}

// defaultRoles is the 5.1 order L, R, C, LFE, Ls, Rs.
var defaultRoles = []ChannelRole{
	RoleLeft, RoleRight, RoleCenter, RoleUnused, RoleLeftSurround, RoleRightSurround,
}

func (r ChannelRole) String() string {
	if r < 0 || r >= roleCount {
		return fmt.Sprintf("ChannelRole(%d)", int(r))
	}
	return roleNames[r]
}

// Weight returns the energy weight of the role.
func (r ChannelRole) Weight() float64 {
	switch r {
	case RoleLeft, RoleRight, RoleCenter, RoleMp180:
		return weightFront
	case RoleLeftSurround, RoleRightSurround,
		RoleMp060, RoleMm060, RoleMp090, RoleMm090, RoleMp135, RoleMm135:
		return weightSurround
	case RoleDualMono:
		return weightDualMono
	default:
		return 0
	}
}

func defaultChannelMap(channels int) []ChannelRole {
	roles := make([]ChannelRole, channels)
	copy(roles, defaultRoles)
	return roles
}

// SetChannel assigns role to the channel at index.
func (m *Meter) SetChannel(index int, role ChannelRole) error {
	return m.SetChannels(index, role)
}

// SetChannels assigns roles to consecutive channels starting at start.
// The batch is applied only if every assignment is valid; otherwise the
// channel map is left unchanged.
func (m *Meter) SetChannels(start int, roles ...ChannelRole) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	proposed := append([]ChannelRole(nil), m.roles...)
	for i, role := range roles {
		index := start + i
		if index < 0 || index >= len(proposed) {
			return fmt.Errorf("%w: channel %d out of range [0, %d)", ErrInvalidChannelIndex, index, len(proposed))
		}
		if role < 0 || role >= roleCount {
			return fmt.Errorf("%w: unknown role %d for channel %d", ErrInvalidChannelIndex, int(role), index)
		}
		if role == RoleDualMono && len(proposed) != 1 {
			return fmt.Errorf("%w: dual-mono requires a single-channel meter, have %d channels", ErrInvalidChannelIndex, len(proposed))
		}
		proposed[index] = role
	}

	if err := checkUniqueRoles(proposed); err != nil {
		return err
	}

	m.roles = proposed
	m.updateWeights()

	return nil
}

func checkUniqueRoles(roles []ChannelRole) error {
	owner := make(map[ChannelRole]int, len(roles))
	for index, role := range roles {
		if role == RoleUnused {
			continue
		}
		if prev, ok := owner[role]; ok {
			return fmt.Errorf("%w: %s on channels %d and %d", ErrDuplicateRole, role, prev, index)
		}
		owner[role] = index
	}
	return nil
}

// Channel returns the role of the channel at index.
func (m *Meter) Channel(index int) (ChannelRole, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if index < 0 || index >= len(m.roles) {
		return RoleUnused, fmt.Errorf("%w: channel %d out of range [0, %d)", ErrInvalidChannelIndex, index, len(m.roles))
	}
	return m.roles[index], nil
}

// Channels returns a copy of the channel map.
func (m *Meter) Channels() []ChannelRole {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]ChannelRole(nil), m.roles...)
}

// updateWeights must be called with the write lock held.
func (m *Meter) updateWeights() {
	for i, role := range m.roles {
		m.weights[i] = role.Weight()
	}
}
