package domain

type EnvironmentID string

const (
	EnvLiskMain  EnvironmentID = "lisk_main"
	EnvLiskTest  EnvironmentID = "lisk_test"
	EnvLwfMain   EnvironmentID = "lwf_main"
	EnvLwfTest   EnvironmentID = "lwf_test"
	EnvOnzMain   EnvironmentID = "onz_main"
	EnvOnzTest   EnvironmentID = "onz_test"
	EnvOxyMain   EnvironmentID = "oxy_main"
	EnvOxyTest   EnvironmentID = "oxy_test"
	EnvShiftMain EnvironmentID = "shift_main"
	EnvShiftTest EnvironmentID = "shift_test"
)

// Environment is one independently operated network deployment.
type Environment struct {
	ID   EnvironmentID
	Name string
}

var environments = []Environment{
	{ID: EnvLiskMain, Name: "Lisk main"},
	{ID: EnvLiskTest, Name: "Lisk test"},
	{ID: EnvLwfMain, Name: "Lwf main"},
	{ID: EnvLwfTest, Name: "Lwf test"},
	{ID: EnvOnzMain, Name: "Onz main"},
	{ID: EnvOnzTest, Name: "Onz test"},
	{ID: EnvOxyMain, Name: "Oxy main"},
	{ID: EnvOxyTest, Name: "Oxy test"},
	{ID: EnvShiftMain, Name: "Shift main"},
	{ID: EnvShiftTest, Name: "Shift test"},
}

// Environments returns the monitored environments in reporting order.
func Environments() []Environment {
	out := make([]Environment, len(environments))
	copy(out, environments)
	return out
}

// LookupEnvironment finds an environment by its identifier.
func LookupEnvironment(id EnvironmentID) (Environment, bool) {
	for _, env := range environments {
		if env.ID == id {
			return env, true
		}
	}
	return Environment{}, false
}
