package clause

import "testing"

func TestModifier(t *testing.T) {
	runScenarios(t, []scenario{
		{
			name:     "security enforced and lock",
			question: "accounts with security enforced for update",
			want:     "SELECT Id, Name FROM Account WITH SECURITY_ENFORCED FOR UPDATE",
		},
		{
			name:     "user mode and all rows",
			question: "contacts including deleted with sharing",
			want:     "SELECT Id, Name FROM Contact WITH USER_MODE ALL ROWS",
		},
		{
			name:     "user mode wins over system mode",
			question: "accounts with sharing in system mode",
			want:     "SELECT Id, Name FROM Account WITH USER_MODE",
		},
		{
			name:     "update wins over view",
			question: "accounts for view for update",
			want:     "SELECT Id, Name FROM Account FOR UPDATE",
		},
		{
			name:     "modifiers stay on the root",
			question: "accounts with their contacts with security enforced",
			want:     "SELECT Id, Name, (SELECT Id, Name FROM Contacts) FROM Account WITH SECURITY_ENFORCED",
		},
	})
}
