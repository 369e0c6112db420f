package entity

// Predicados de autorización: funciones puras de (rol, empresa). Son la
// única fuente de verdad para RBAC; la visibilidad de menús u otras
// preocupaciones de UI no participan aquí.

// IsValidRole indica si el string es un rol conocido.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSuperAdmin, RoleWarehouseManager, RoleWarehouseStaff,
		RoleRepairManager, RoleTechnician, RoleBranchManager, RoleSalesStaff:
		return true
	}
	return false
}

// SameTenant verifica que el actor pueda operar sobre recursos de la
// empresa indicada. super_admin cruza tenants; el resto exige coincidencia.
func (a Actor) SameTenant(companyID string) bool {
	if a.Role == RoleSuperAdmin {
		return true
	}
	return a.CompanyID != "" && a.CompanyID == companyID
}

// CanManageDevices: alta, edición y encolado de inspección de dispositivos.
func CanManageDevices(role string) bool {
	switch role {
	case RoleAdmin, RoleSuperAdmin, RoleWarehouseManager, RoleWarehouseStaff:
		return true
	}
	return false
}

// CanInspect: registrar inspecciones físicas o técnicas.
func CanInspect(role string) bool {
	switch role {
	case RoleAdmin, RoleSuperAdmin, RoleWarehouseManager, RoleWarehouseStaff, RoleTechnician:
		return true
	}
	return false
}

// CanRepair: roles capaces de ejecutar reparaciones (asignables a una orden).
func CanRepair(role string) bool {
	return role == RoleTechnician || role == RoleRepairManager
}

// CanManageRepairs: crear, asignar, completar y cancelar órdenes de reparación.
func CanManageRepairs(role string) bool {
	switch role {
	case RoleAdmin, RoleSuperAdmin, RoleRepairManager, RoleTechnician:
		return true
	}
	return false
}

// CanTransfer: trasladar dispositivos ready_for_sale a una sucursal.
func CanTransfer(role string) bool {
	switch role {
	case RoleAdmin, RoleSuperAdmin, RoleWarehouseManager, RoleBranchManager:
		return true
	}
	return false
}

// CanScrap: dar de baja un dispositivo irrecuperable.
func CanScrap(role string) bool {
	switch role {
	case RoleAdmin, RoleSuperAdmin, RoleWarehouseManager, RoleRepairManager:
		return true
	}
	return false
}

// CanDeleteDevice: borrado físico, solo permitido antes de la venta.
func CanDeleteDevice(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}

// CanSell: crear clientes, facturas y registrar pagos.
func CanSell(role string) bool {
	switch role {
	case RoleAdmin, RoleSuperAdmin, RoleBranchManager, RoleSalesStaff:
		return true
	}
	return false
}

// CanViewFinance: acceder al dashboard financiero.
func CanViewFinance(role string) bool {
	switch role {
	case RoleAdmin, RoleSuperAdmin, RoleBranchManager:
		return true
	}
	return false
}
