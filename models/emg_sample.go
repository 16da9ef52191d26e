package models

// EMGChannels is the number of electrodes on the armband.
const EMGChannels = 8

// EmgSample holds one EMG reading, one signed value per electrode.
// Timestamp is the device clock in microseconds (unspecified epoch,
// monotonically non-decreasing).
type EmgSample struct {
	Timestamp uint64            `json:"timestamp"`
	Values    [EMGChannels]int8 `json:"emg"`
}

func (EmgSample) CSVHeader() []string {
	return []string{
		"timestamp",
		"emg1", "emg2", "emg3", "emg4",
		"emg5", "emg6", "emg7", "emg8",
	}
}

func (s *EmgSample) CSVRow() []string {
	row := make([]string, 0, EMGChannels+1)
	row = append(row, utoa64(s.Timestamp))
	for _, v := range s.Values {
		row = append(row, itoa(int(v)))
	}
	return row
}
