package root

import (
	"github.com/clearstaff/hr-backoffice/apps/cli/cmd/auth"
	"github.com/clearstaff/hr-backoffice/apps/cli/cmd/bootstrap"
	employeecmd "github.com/clearstaff/hr-backoffice/apps/cli/cmd/employee"
	tenantcmd "github.com/clearstaff/hr-backoffice/apps/cli/cmd/tenant"
)

func init() {
	Root().AddCommand(auth.Command())
	Root().AddCommand(bootstrap.Command())
	Root().AddCommand(tenantcmd.Command())
	Root().AddCommand(employeecmd.Command())
}
