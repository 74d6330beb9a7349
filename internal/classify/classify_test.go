package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cierre-dev/cierre/internal/model"
)

func TestClassifyPrecedence(t *testing.T) {
	tests := []struct {
		name string
		acc  model.Account
		want model.Clasificacion
	}{
		{
			// The kind rule dominates even a foreign-currency name.
			name: "equity with fx name stays non-monetary",
			acc:  model.Account{Code: "3.2.01", Name: "Reserva en Dólares", Kind: model.KindEquity},
			want: model.NoMonetaria,
		},
		{
			name: "fx keyword beats cash code prefix",
			acc:  model.Account{Code: "1.1.03", Name: "Moneda Extranjera", Kind: model.KindAsset},
			want: model.FxProtegida,
		},
		{
			name: "statement group cash",
			acc:  model.Account{Code: "9.9.99", Name: "Fondo fijo", Kind: model.KindAsset, Group: model.GroupCajaYBancos},
			want: model.Monetaria,
		},
		{
			name: "statement group inventory",
			acc:  model.Account{Code: "9.9.98", Name: "Stock central", Kind: model.KindAsset, Group: model.GroupBienesDeCambio},
			want: model.NoMonetaria,
		},
		{
			name: "code prefix receivables",
			acc:  model.Account{Code: "1.3.01", Name: "Documentos", Kind: model.KindAsset},
			want: model.Monetaria,
		},
		{
			name: "code prefix fixed assets",
			acc:  model.Account{Code: "1.5.04", Name: "Equipos", Kind: model.KindAsset},
			want: model.NoMonetaria,
		},
		{
			name: "code prefix liabilities",
			acc:  model.Account{Code: "2.1.01", Name: "Obligaciones", Kind: model.KindLiability},
			want: model.Monetaria,
		},
		{
			// IVA would also hit no keyword list otherwise; the tax-credit
			// list resolves it monetary.
			name: "tax credit keyword wins",
			acc:  model.Account{Code: "8.1.01", Name: "IVA Crédito Fiscal", Kind: model.KindAsset},
			want: model.Monetaria,
		},
		{
			name: "non-monetary keyword",
			acc:  model.Account{Code: "8.2.01", Name: "Mercaderías en tránsito", Kind: model.KindAsset},
			want: model.NoMonetaria,
		},
		{
			name: "nothing matches",
			acc:  model.Account{Code: "8.9.99", Name: "Cuenta puente", Kind: model.KindAsset},
			want: model.Indefinida,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.acc, nil))
		})
	}
}

func TestClassifyOverrides(t *testing.T) {
	acc := model.Account{Code: "1.1.01", Name: "Caja", Kind: model.KindAsset}

	ov := &model.AccountOverride{Classification: model.NoMonetaria}
	assert.Equal(t, model.NoMonetaria, Classify(acc, ov))

	// IsFxProtected wins over any stored classification.
	ov = &model.AccountOverride{Classification: model.Monetaria, IsFxProtected: true}
	assert.Equal(t, model.FxProtegida, Classify(acc, ov))
}

func TestClassifyAccountsBuckets(t *testing.T) {
	accounts := []model.Account{
		{ID: "a", Code: "1.1.01", Name: "Caja", Kind: model.KindAsset},
		{ID: "b", Code: "1.1.03", Name: "Dólares en caja", Kind: model.KindAsset},
		{ID: "c", Code: "1.4.01", Name: "Mercaderías", Kind: model.KindAsset},
		{ID: "d", Code: "8.9.99", Name: "Cuenta puente", Kind: model.KindAsset},
		{ID: "e", Code: "1.1.02", Name: "Banco", Kind: model.KindAsset},
	}
	overrides := map[string]model.AccountOverride{
		"e": {Exclude: true},
	}

	b := ClassifyAccounts(accounts, overrides)
	assert.Len(t, b.Monetaria, 1)
	assert.Len(t, b.FxProtegida, 1)
	assert.Len(t, b.NoMonetaria, 1)
	assert.Len(t, b.Indefinida, 1)
	assert.Len(t, b.Excluida, 1)
	assert.Equal(t, "e", b.Excluida[0].ID)
}

func TestResolveValuationMethod(t *testing.T) {
	tests := []struct {
		name  string
		acc   model.Account
		class model.Clasificacion
		ov    *model.AccountOverride
		want  model.ValuationMethod
	}{
		{
			name:  "depreciation account is NA even in a revaluable rubro",
			acc:   model.Account{Code: "1.5.02", Name: "Amortización Acumulada Rodados", Group: model.GroupBienesDeUso, Kind: model.KindAsset},
			class: model.NoMonetaria,
			want:  model.MethodNA,
		},
		{
			name:  "contra flag is NA",
			acc:   model.Account{Code: "1.3.09", Name: "Previsión incobrables", IsContra: true, Kind: model.KindAsset},
			class: model.NoMonetaria,
			want:  model.MethodNA,
		},
		{
			name:  "equity is NA",
			acc:   model.Account{Code: "3.1.01", Name: "Capital Social", Kind: model.KindEquity},
			class: model.NoMonetaria,
			want:  model.MethodNA,
		},
		{
			name:  "fx protected",
			acc:   model.Account{Code: "1.1.03", Name: "Moneda Extranjera", Kind: model.KindAsset},
			class: model.FxProtegida,
			want:  model.MethodFX,
		},
		{
			name:  "inventory rubro",
			acc:   model.Account{Code: "1.4.01", Name: "Stock", Group: model.GroupBienesDeCambio, Kind: model.KindAsset},
			class: model.NoMonetaria,
			want:  model.MethodReposicion,
		},
		{
			name:  "fixed asset rubro",
			acc:   model.Account{Code: "1.5.01", Name: "Rodados", Group: model.GroupBienesDeUso, Kind: model.KindAsset},
			class: model.NoMonetaria,
			want:  model.MethodRevaluo,
		},
		{
			name:  "investments rubro",
			acc:   model.Account{Code: "1.2.01", Name: "Acciones", Group: model.GroupInversiones, Kind: model.KindAsset},
			class: model.NoMonetaria,
			want:  model.MethodVPP,
		},
		{
			name:  "keyword mercaderias without group",
			acc:   model.Account{Code: "8.4.01", Name: "Mercaderías", Kind: model.KindAsset},
			class: model.NoMonetaria,
			want:  model.MethodVNR,
		},
		{
			name:  "fallback manual",
			acc:   model.Account{Code: "8.9.01", Name: "Obras en curso", Kind: model.KindAsset},
			class: model.NoMonetaria,
			want:  model.MethodManual,
		},
		{
			name:  "override wins",
			acc:   model.Account{Code: "1.5.01", Name: "Rodados", Group: model.GroupBienesDeUso, Kind: model.KindAsset},
			class: model.NoMonetaria,
			ov:    &model.AccountOverride{ValuationMethod: model.MethodManual},
			want:  model.MethodManual,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveValuationMethod(tt.acc, tt.class, tt.ov))
		})
	}
}
