package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// LayoutKeyOpts are the engine settings a layout result depends on besides
// the topology itself.
type LayoutKeyOpts struct {
	Oracle      string  `json:"oracle"`
	BoxWidth    float64 `json:"box_width"`
	BoxHeight   float64 `json:"box_height"`
	RankSep     float64 `json:"rank_sep"`
	NodeSep     float64 `json:"node_sep"`
	PortSpacing float64 `json:"port_spacing"`
}

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey returns the key for a layout of the topology with the given
	// digest under opts.
	LayoutKey(topologyHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer hashes every component into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(topologyHash string, opts LayoutKeyOpts) string {
	opt, _ := json.Marshal(opts)
	return "layout:" + Hash(append([]byte(topologyHash+"\x00"), opt...))
}
