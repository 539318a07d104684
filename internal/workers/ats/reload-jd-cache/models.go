package reloadjdcache

// Input names one job whose cached text is dropped, or asks for the whole
// cache to be cleared. ClearAll wins when both are set.
type Input struct {
	JobID    string `json:"jobId,omitempty"`
	ClearAll bool   `json:"clearAll,omitempty"`
}

type Output struct {
	JobID   string `json:"jobId,omitempty"`
	Cleared bool   `json:"cleared"`
	Evicted int    `json:"evicted"`
}
