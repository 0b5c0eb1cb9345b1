package config

import "time"

type BankConfig interface {
	GetUSDExchangeRate() float64
	GetPaisTaxRate() float64
	GetGananciasTaxRate() float64
	GetResendCooldown() time.Duration
	GetRecoveryTokenExpiry() time.Duration
}

type Bank struct {
	USDExchangeRate     float64       `env:"USD_EXCHANGE_RATE" envDefault:"1000"`
	PaisTaxRate         float64       `env:"PAIS_TAX_RATE" envDefault:"0.30"`
	GananciasTaxRate    float64       `env:"GANANCIAS_TAX_RATE" envDefault:"0.30"`
	ResendCooldown      time.Duration `env:"RESEND_COOLDOWN" envDefault:"60s"`
	RecoveryTokenExpiry time.Duration `env:"RECOVERY_TOKEN_EXPIRY" envDefault:"30m"`
}

var _ BankConfig = Bank{}

func (b Bank) GetUSDExchangeRate() float64 {
	return b.USDExchangeRate
}

func (b Bank) GetPaisTaxRate() float64 {
	return b.PaisTaxRate
}

func (b Bank) GetGananciasTaxRate() float64 {
	return b.GananciasTaxRate
}

func (b Bank) GetResendCooldown() time.Duration {
	return b.ResendCooldown
}

func (b Bank) GetRecoveryTokenExpiry() time.Duration {
	if b.RecoveryTokenExpiry <= 0 {
		return 30 * time.Minute
	}
	return b.RecoveryTokenExpiry
}
