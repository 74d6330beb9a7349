package model

// AccountKind classifies accounts in the plan de cuentas.
type AccountKind string

const (
	KindAsset     AccountKind = "asset"
	KindLiability AccountKind = "liability"
	KindEquity    AccountKind = "equity"
	KindIncome    AccountKind = "income"
	KindExpense   AccountKind = "expense"
)

// StatementGroup is the rubro an account is presented under.
type StatementGroup string

const (
	GroupCajaYBancos    StatementGroup = "caja_y_bancos"
	GroupCreditos       StatementGroup = "creditos"
	GroupDeudas         StatementGroup = "deudas"
	GroupBienesDeCambio StatementGroup = "bienes_de_cambio"
	GroupBienesDeUso    StatementGroup = "bienes_de_uso"
	GroupIntangibles    StatementGroup = "intangibles"
	GroupInversiones    StatementGroup = "inversiones"
	GroupPatrimonio     StatementGroup = "patrimonio_neto"
	GroupResultados     StatementGroup = "resultados"
)

// Account represents a row in plan-de-cuentas.csv.
type Account struct {
	ID       string
	Code     string
	Name     string
	Kind     AccountKind
	Group    StatementGroup // empty if the plan does not map the account
	IsHeader bool
	IsContra bool
	ParentID string // empty = top-level
}

// Clasificacion is the monetary-exposure class of an account under the
// inflation-adjustment rules.
type Clasificacion string

const (
	Monetaria   Clasificacion = "MONETARIA"
	NoMonetaria Clasificacion = "NO_MONETARIA"
	FxProtegida Clasificacion = "FX_PROTEGIDA"
	Indefinida  Clasificacion = "INDEFINIDA"
)

// ValuationMethod is the suggested RT17 valuation technique for an account.
type ValuationMethod string

const (
	MethodFX         ValuationMethod = "FX"
	MethodReposicion ValuationMethod = "REPOSICION"
	MethodRevaluo    ValuationMethod = "REVALUO"
	MethodVPP        ValuationMethod = "VPP"
	MethodVNR        ValuationMethod = "VNR"
	MethodManual     ValuationMethod = "MANUAL"
	MethodNA         ValuationMethod = "NA"
)

// AccountOverride captures user decisions for one account. Every field is
// optional; the zero value means "use the heuristic".
type AccountOverride struct {
	Classification   Clasificacion   `yaml:"classification,omitempty"`
	IsFxProtected    bool            `yaml:"is_fx_protected,omitempty"`
	ManualOriginDate string          `yaml:"manual_origin_date,omitempty"` // "2006-01-02"
	Exclude          bool            `yaml:"exclude,omitempty"`
	Validated        bool            `yaml:"validated,omitempty"`
	ValuationMethod  ValuationMethod `yaml:"valuation_method,omitempty"`
}
