package plan

import "github.com/cierre-dev/cierre/internal/model"

// DefaultPlan returns a minimal Argentine-style plan de cuentas used by
// `cierre init` as a starting point.
func DefaultPlan() []model.Account {
	return []model.Account{
		{ID: "1", Code: "1", Name: "Activo", Kind: model.KindAsset, IsHeader: true},
		{ID: "1.1", Code: "1.1", Name: "Caja y Bancos", Kind: model.KindAsset, Group: model.GroupCajaYBancos, IsHeader: true, ParentID: "1"},
		{ID: "1.1.01", Code: "1.1.01", Name: "Caja", Kind: model.KindAsset, Group: model.GroupCajaYBancos, ParentID: "1.1"},
		{ID: "1.1.02", Code: "1.1.02", Name: "Banco Cuenta Corriente", Kind: model.KindAsset, Group: model.GroupCajaYBancos, ParentID: "1.1"},
		{ID: "1.1.03", Code: "1.1.03", Name: "Moneda Extranjera", Kind: model.KindAsset, Group: model.GroupCajaYBancos, ParentID: "1.1"},
		{ID: "1.3", Code: "1.3", Name: "Créditos por Ventas", Kind: model.KindAsset, Group: model.GroupCreditos, IsHeader: true, ParentID: "1"},
		{ID: "1.3.01", Code: "1.3.01", Name: "Deudores por Ventas", Kind: model.KindAsset, Group: model.GroupCreditos, ParentID: "1.3"},
		{ID: "1.4", Code: "1.4", Name: "Bienes de Cambio", Kind: model.KindAsset, Group: model.GroupBienesDeCambio, IsHeader: true, ParentID: "1"},
		{ID: "1.4.01", Code: "1.4.01", Name: "Mercaderías", Kind: model.KindAsset, Group: model.GroupBienesDeCambio, ParentID: "1.4"},
		{ID: "1.5", Code: "1.5", Name: "Bienes de Uso", Kind: model.KindAsset, Group: model.GroupBienesDeUso, IsHeader: true, ParentID: "1"},
		{ID: "1.5.01", Code: "1.5.01", Name: "Rodados", Kind: model.KindAsset, Group: model.GroupBienesDeUso, ParentID: "1.5"},
		{ID: "1.5.02", Code: "1.5.02", Name: "Amortización Acumulada Rodados", Kind: model.KindAsset, Group: model.GroupBienesDeUso, IsContra: true, ParentID: "1.5"},
		{ID: "2", Code: "2", Name: "Pasivo", Kind: model.KindLiability, IsHeader: true},
		{ID: "2.1", Code: "2.1", Name: "Deudas Comerciales", Kind: model.KindLiability, Group: model.GroupDeudas, IsHeader: true, ParentID: "2"},
		{ID: "2.1.01", Code: "2.1.01", Name: "Proveedores", Kind: model.KindLiability, Group: model.GroupDeudas, ParentID: "2.1"},
		{ID: "3", Code: "3", Name: "Patrimonio Neto", Kind: model.KindEquity, IsHeader: true},
		{ID: "3.1.01", Code: "3.1.01", Name: "Capital Social", Kind: model.KindEquity, Group: model.GroupPatrimonio, ParentID: "3"},
		{ID: "3.1.02", Code: "3.1.02", Name: "Ajuste de Capital", Kind: model.KindEquity, Group: model.GroupPatrimonio, ParentID: "3"},
		{ID: "4", Code: "4", Name: "Resultados", Kind: model.KindIncome, IsHeader: true},
		{ID: "4.1.01", Code: "4.1.01", Name: "Ventas", Kind: model.KindIncome, Group: model.GroupResultados, ParentID: "4"},
		{ID: "4.6.05", Code: "4.6.05", Name: "R.E.C.P.A.M.", Kind: model.KindIncome, Group: model.GroupResultados, ParentID: "4"},
		{ID: "4.6.06", Code: "4.6.06", Name: "Resultado por Tenencia", Kind: model.KindIncome, Group: model.GroupResultados, ParentID: "4"},
		{ID: "5.1.01", Code: "5.1.01", Name: "Costo de Mercaderías Vendidas", Kind: model.KindExpense, Group: model.GroupResultados, ParentID: "4"},
	}
}
