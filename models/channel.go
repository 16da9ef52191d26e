package models

// Channel identifies one of the armband's sensor streams.
type Channel int

const (
	ChannelEMG Channel = iota
	ChannelAccelerometer
	ChannelGyroscope
	ChannelOrientation
)

var channelNames = map[Channel]string{
	ChannelEMG:           "emg",
	ChannelAccelerometer: "accelerometer",
	ChannelGyroscope:     "gyroscope",
	ChannelOrientation:   "orientation",
}

func (c Channel) String() string {
	if n, ok := channelNames[c]; ok {
		return n
	}
	return "unknown"
}
