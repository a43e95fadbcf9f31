package state

import "time"

// Outputs, çalışmalar arasında taşınan değerlerdir: üretilen bucket adı,
// kilit tablosu, public IP... Bucket adının tekrar eden çalışmalarda
// değişmemesi bu dosyaya bağlıdır.
type Outputs struct {
	Version   string            `json:"version"`
	UpdatedAt time.Time         `json:"updated_at"`
	Values    map[string]string `json:"values"`
}

func NewOutputs() *Outputs {
	return &Outputs{
		Version: "1.0",
		Values:  make(map[string]string),
	}
}

// Get returns the stored value for key, empty string when absent.
func (o *Outputs) Get(key string) string {
	if o == nil || o.Values == nil {
		return ""
	}
	return o.Values[key]
}
