package plugin

// Require names another plugin a variant depends on.
type Require struct {
	Name    string `json:"name"`
	Variant string `json:"variant"`
}

// Definition is one validated per-variant document. The common fields are
// shared across all eight plugin types; the trailing groups are only
// populated for the types that declare them, which ValidateDefinition
// enforces by rejecting type-inappropriate keys.
type Definition struct {
	Type Type

	// Identity
	Name      string
	Namespace string
	Variant   string

	// Presentation
	Label       *string
	Description *string
	Docs        *string
	LogoURL     *string

	// Packaging
	PipURL     *string
	Executable *string
	Repo       string
	ExtRepo    *string
	Python     *string
	Hidden     *bool

	// Hub metadata
	Keywords          []string
	MaintenanceStatus *MaintenanceStatus
	Quality           *Quality
	DomainURL         *string
	DefinitionText    *string
	NextSteps         *string
	SettingsPreamble  *string
	Usage             *string
	Prereq            *string

	// Configuration surface
	Settings                []Setting
	SettingsGroupValidation [][]string
	Commands                map[string]Command
	Requires                map[Type][]Require

	// Extractors only
	Capabilities []string
	Select       []string
	Metadata     map[string]any
	Schema       map[string]any

	// Loaders only
	TargetSchema *string
	Dialect      *string

	// Transforms only
	Vars map[string]any

	// Files only
	Update map[string]bool
}
