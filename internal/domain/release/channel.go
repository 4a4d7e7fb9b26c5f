package release

// Channel selects the release track to follow.
type Channel int

const (
	// ChannelStable follows regular releases.
	ChannelStable Channel = iota
	// ChannelBeta follows prereleases.
	ChannelBeta
)

// ChannelFromBeta returns ChannelBeta when beta is set and ChannelStable otherwise.
func ChannelFromBeta(beta bool) Channel {
	if beta {
		return ChannelBeta
	}

	return ChannelStable
}

// Prerelease reports which value of the feed's prerelease flag matches the channel.
func (c Channel) Prerelease() bool {
	return c == ChannelBeta
}

// String returns the channel name.
func (c Channel) String() string {
	if c == ChannelBeta {
		return "beta"
	}

	return "stable"
}
