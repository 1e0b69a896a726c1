package governance

// DefaultCatalogVersion identifies the built-in designations list
const DefaultCatalogVersion = "2024.1"

// Role keys of the built-in catalog
const (
	RoleDistrictPresident = "district_president"
	RoleDistrictSecretary = "district_secretary"
	RoleChiefSecretary    = "chief_secretary"
	RolePresident         = "president"
	RoleVicePresident     = "vice_president"
	RoleSecretary         = "secretary"
	RoleJointSecretary    = "joint_secretary"
	RoleTreasurer         = "treasurer"
	RoleWomenSecretary    = "women_secretary"
	RoleAdvisor           = "advisor"
	RoleExecutiveMember   = "executive_member"
)

func defaultRoles() []Role {
	single := func(key string, order int, en, te string) Role {
		return Role{Key: key, Seat: SeatSingle, Order: order, Labels: map[string]string{"en": en, "te": te}}
	}
	return []Role{
		single(RoleDistrictPresident, 1, "District President", "జిల్లా అధ్యక్షుడు"),
		single(RoleDistrictSecretary, 2, "District Secretary", "జిల్లా కార్యదర్శి"),
		single(RoleChiefSecretary, 3, "Chief Secretary", "ప్రధాన కార్యదర్శి"),
		single(RolePresident, 4, "President", "అధ్యక్షుడు"),
		single(RoleVicePresident, 5, "Vice President", "ఉపాధ్యక్షుడు"),
		single(RoleSecretary, 6, "General Secretary", "ప్రధాన కార్యదర్శి"),
		single(RoleJointSecretary, 7, "Joint Secretary", "సహాయ కార్యదర్శి"),
		single(RoleTreasurer, 8, "Treasurer", "కోశాధికారి"),
		single(RoleWomenSecretary, 9, "Women Secretary", "మహిళా కార్యదర్శి"),
		single(RoleAdvisor, 10, "Advisor", "సలహాదారు"),
		{
			Key:    RoleExecutiveMember,
			Seat:   SeatMulti,
			Order:  11,
			Labels: map[string]string{"en": "Executive Member", "te": "కార్యవర్గ సభ్యుడు"},
		},
	}
}

// DefaultRoleCatalog returns the association's built-in designations
func DefaultRoleCatalog() *RoleCatalog {
	catalog, err := NewRoleCatalog(DefaultCatalogVersion, defaultRoles())
	if err != nil {
		panic("governance: built-in role catalog is invalid: " + err.Error())
	}
	return catalog
}
