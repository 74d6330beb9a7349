package asiento

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cierre-dev/cierre/internal/plan"
)

// DefaultTolerance is the rounding imbalance the builder silently
// absorbs into the contra line. It comes from accumulated cent rounding
// over many small operations; anything larger marks the voucher invalid.
var DefaultTolerance = decimal.RequireFromString("0.011")

// Builder assembles draft vouchers against a plan de cuentas.
type Builder struct {
	plan      *plan.Service
	closingID string
	tolerance decimal.Decimal
}

// NewBuilder creates a Builder. A zero tolerance selects the default.
func NewBuilder(p *plan.Service, closingID string, tolerance decimal.Decimal) *Builder {
	if tolerance.IsZero() {
		tolerance = DefaultTolerance
	}
	return &Builder{plan: p, closingID: closingID, tolerance: tolerance}
}

// bucketKey partitions deltas by method and by the side the contra
// takes. Gains and losses never share a voucher: netting them into one
// contra line would misstate the RECPAM / holding-result balance.
type bucketKey struct {
	tipo   Tipo
	contra Lado
}

// Build turns deltas into at most four balanced draft vouchers, one per
// (method, direction) bucket, numbered in deterministic order.
func (b *Builder) Build(deltas []Delta) []Borrador {
	buckets := make(map[bucketKey][]Delta)
	for _, d := range deltas {
		if d.Monto.IsZero() {
			continue
		}
		lineSide, _ := direction(d)
		buckets[bucketKey{tipo: d.Tipo, contra: opposite(lineSide)}] = append(
			buckets[bucketKey{tipo: d.Tipo, contra: opposite(lineSide)}], d)
	}

	order := []bucketKey{
		{TipoRT6, Haber}, {TipoRT6, Debe},
		{TipoRT17, Haber}, {TipoRT17, Debe},
	}

	var out []Borrador
	numero := 0
	for _, key := range order {
		ds, ok := buckets[key]
		if !ok {
			continue
		}
		numero++
		out = append(out, b.buildOne(numero, key, ds))
	}
	return out
}

func (b *Builder) buildOne(numero int, key bucketKey, deltas []Delta) Borrador {
	var warnings []string
	capitalRedirected := false

	contraSpecial := b.contraAccount(key.tipo)
	if contraSpecial.Warning != "" {
		warnings = append(warnings, contraSpecial.Warning)
	}

	var ajuste SpecialAccount // resolved lazily, only if a capital line shows up

	// One raw line per delta, redirecting capital lines as they appear.
	var raw []Linea
	net := decimal.Zero
	for _, d := range deltas {
		side, monto := direction(d)
		monto = monto.Round(2)
		if monto.IsZero() {
			continue
		}

		accID, code, name := d.AccountID, d.CuentaCode, d.CuentaName
		if isCapitalAccount(code, name) {
			if ajuste.Account.Code == "" {
				ajuste = GetSpecialAccount(b.plan, SpecialAjusteCapital)
				if ajuste.Warning != "" {
					warnings = append(warnings, ajuste.Warning)
				}
			}
			accID, code, name = ajuste.Account.ID, ajuste.Account.Code, ajuste.Account.Name
			capitalRedirected = true
			warnings = append(warnings, fmt.Sprintf(
				"ajuste sobre %s redirigido a %s (el capital histórico no se modifica)", d.CuentaCode, code))
		}

		raw = append(raw, newLinea(accID, code, name, side, monto))
		net = net.Add(monto)
	}

	lineas := consolidate(raw)
	sortLineas(lineas)

	// Contra line sized to the absolute net of every constituent delta.
	contra := newLinea(contraSpecial.Account.ID, contraSpecial.Account.Code,
		contraSpecial.Account.Name, key.contra, net.Round(2))
	lineas = append(lineas, contra)

	bor := Borrador{
		Numero:            numero,
		Key:               fmt.Sprintf("%s:%s_%s", b.closingID, key.tipo, key.contra),
		Descripcion:       descripcion(key),
		Lineas:            lineas,
		Tipo:              key.tipo,
		Warning:           strings.Join(warnings, "; "),
		CapitalRedirected: capitalRedirected,
	}
	b.balance(&bor)
	return bor
}

func (b *Builder) contraAccount(tipo Tipo) SpecialAccount {
	if tipo == TipoRT6 {
		return GetSpecialAccount(b.plan, SpecialRecpam)
	}
	return GetSpecialAccount(b.plan, SpecialTenencia)
}

func newLinea(accID, code, name string, side Lado, monto decimal.Decimal) Linea {
	l := Linea{AccountID: accID, CuentaCodigo: code, CuentaNombre: name}
	if side == Debe {
		l.Debe = monto
	} else {
		l.Haber = monto
	}
	return l
}

// consolidate folds lines sharing an account code into one, summing each
// side and netting so exactly one side stays non-zero.
func consolidate(lineas []Linea) []Linea {
	type acc struct {
		linea Linea
	}
	byCode := make(map[string]*acc)
	var order []string
	for _, l := range lineas {
		a, ok := byCode[l.CuentaCodigo]
		if !ok {
			a = &acc{linea: Linea{AccountID: l.AccountID, CuentaCodigo: l.CuentaCodigo, CuentaNombre: l.CuentaNombre}}
			byCode[l.CuentaCodigo] = a
			order = append(order, l.CuentaCodigo)
		}
		a.linea.Debe = a.linea.Debe.Add(l.Debe)
		a.linea.Haber = a.linea.Haber.Add(l.Haber)
	}

	out := make([]Linea, 0, len(order))
	for _, code := range order {
		l := byCode[code].linea
		switch l.Debe.Cmp(l.Haber) {
		case 0:
			continue // fully netted out
		case 1:
			l.Debe = l.Debe.Sub(l.Haber)
			l.Haber = decimal.Zero
		case -1:
			l.Haber = l.Haber.Sub(l.Debe)
			l.Debe = decimal.Zero
		}
		out = append(out, l)
	}
	return out
}

// sortLineas puts debit-bearing lines first, ties broken by code.
func sortLineas(lineas []Linea) {
	sort.SliceStable(lineas, func(i, j int) bool {
		di, dj := !lineas[i].Debe.IsZero(), !lineas[j].Debe.IsZero()
		if di != dj {
			return di
		}
		return lineas[i].CuentaCodigo < lineas[j].CuentaCodigo
	})
}

// balance totals the voucher and applies the rounding plug: an imbalance
// within tolerance is absorbed into the contra (last) line, anything
// larger leaves the voucher invalid rather than silently forced.
func (b *Builder) balance(bor *Borrador) {
	totalDebe := decimal.Zero
	totalHaber := decimal.Zero
	for _, l := range bor.Lineas {
		totalDebe = totalDebe.Add(l.Debe)
		totalHaber = totalHaber.Add(l.Haber)
	}

	diff := totalDebe.Sub(totalHaber)
	if !diff.IsZero() && diff.Abs().LessThanOrEqual(b.tolerance) && len(bor.Lineas) > 0 {
		contra := &bor.Lineas[len(bor.Lineas)-1]
		if !contra.Haber.IsZero() {
			contra.Haber = contra.Haber.Add(diff)
			totalHaber = totalHaber.Add(diff)
		} else {
			contra.Debe = contra.Debe.Sub(diff)
			totalDebe = totalDebe.Sub(diff)
		}
	}

	bor.TotalDebe = totalDebe
	bor.TotalHaber = totalHaber
	bor.IsValid = totalDebe.Equal(totalHaber) && totalDebe.IsPositive()
}

func descripcion(key bucketKey) string {
	method := "Ajuste por inflación RT6"
	if key.tipo == TipoRT17 {
		method = "Valuación a valores corrientes RT17"
	}
	if key.contra == Haber {
		return method + " – resultado acreedor"
	}
	return method + " – resultado deudor"
}
