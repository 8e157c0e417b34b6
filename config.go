package auth

// SigningConfig is the immutable key/issuer/audience/duration bundle used to
// sign tokens. Load it once at process start and treat it as read only; the
// library never mutates it.
//
// DurationDays keeps the coarse day level expiry granularity of the systems
// this library interoperates with. Callers that need finer control should
// front the Config interface with their own implementation.
type SigningConfig struct {
	SigningKey   string   `json:"signing_key" yaml:"signing_key"`
	Issuer       string   `json:"issuer" yaml:"issuer"`
	Audience     []string `json:"audience" yaml:"audience"`
	DurationDays int      `json:"duration_days" yaml:"duration_days"`
}

var _ Config = SigningConfig{}

func (c SigningConfig) GetSigningKey() string { return c.SigningKey }

func (c SigningConfig) GetIssuer() string { return c.Issuer }

func (c SigningConfig) GetAudience() []string { return c.Audience }

func (c SigningConfig) GetTokenDurationDays() int { return c.DurationDays }
