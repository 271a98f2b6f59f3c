package host

// Container keys owned by the host.
const (
	KeyConfig             = "config"
	KeyFormTypes          = "form.types"
	KeyTranslator         = "translator"
	KeyLocale             = "locale"
	KeyEntityManager      = "orm.em"
	KeyControllersFactory = "controllers_factory"
	KeyRouter             = "routes"
	KeyVersion            = "version"
	KeyLogger             = "logger"
)

// Enabled is the value of an on/off config constant that is switched on.
const Enabled = 1
