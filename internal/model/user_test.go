package model

import "testing"

func TestAuthorizationRules(t *testing.T) {
	space := &Space{ID: 10, UniversityID: 1}

	member := User{ID: 1, Role: RoleMember, IsActive: true, UniversityID: u64(1)}
	otherMember := User{ID: 2, Role: RoleMember, IsActive: true, UniversityID: u64(2)}
	inactive := User{ID: 3, Role: RoleMember, IsActive: false, UniversityID: u64(1)}
	admin := User{ID: 4, Role: RoleAdmin, IsActive: true}
	inactiveAdmin := User{ID: 5, Role: RoleAdmin, IsActive: false}
	unassigned := User{ID: 6, Role: RoleMember, IsActive: true}

	tests := []struct {
		name       string
		user       User
		canManage  bool
		canReport  bool
	}{
		{name: "active member of same university", user: member, canManage: true, canReport: true},
		{name: "active member of other university", user: otherMember, canManage: false, canReport: false},
		{name: "inactive member denied regardless of match", user: inactive, canManage: false, canReport: false},
		{name: "admin manages any space", user: admin, canManage: true, canReport: false},
		{name: "inactive admin denied", user: inactiveAdmin, canManage: false, canReport: false},
		{name: "member without university", user: unassigned, canManage: false, canReport: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.CanManageSpace(space); got != tt.canManage {
				t.Errorf("CanManageSpace() = %v, want %v", got, tt.canManage)
			}
			if got := tt.user.CanReportOccupancy(space); got != tt.canReport {
				t.Errorf("CanReportOccupancy() = %v, want %v", got, tt.canReport)
			}
		})
	}
}
