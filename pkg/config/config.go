package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Drivers de almacenamiento del historial de cotizaciones.
const (
	HistoryDriverCSV      = "csv"
	HistoryDriverSQLite   = "sqlite"
	HistoryDriverPostgres = "postgres"
)

// Motores de exportación PDF.
const (
	PDFEngineMaroto      = "maroto"
	PDFEngineWkhtmltopdf = "wkhtmltopdf"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Quote   QuoteConfig
	History HistoryConfig
	DB      DBConfig
	PDF     PDFConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
	DocsPath string // swagger.json servido en /docs (vacío o inexistente = deshabilitado)
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// QuoteConfig parámetros de negocio de la cotización.
type QuoteConfig struct {
	DocPrefix string          // prefijo del número de documento (ej. HYQ)
	OrgName   string          // razón social mostrada en el documento
	OrgCode   string          // código corto usado en el nombre del archivo PDF
	VATRate   decimal.Decimal // 0.10 = IVA del 10 %
	ValidDays int             // vigencia de la cotización en días
	ExportDir string          // carpeta donde se archivan los PDF generados
}

// HistoryConfig selecciona y configura el almacén del historial.
type HistoryConfig struct {
	Driver     string // csv | sqlite | postgres
	CSVPath    string
	SQLitePath string
}

// DBConfig configuración de PostgreSQL (solo si HISTORY_DRIVER=postgres).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// PDFConfig selecciona el motor de PDF.
// WkhtmltopdfPath se inyecta por configuración: no hay ruta fija en el código.
type PDFConfig struct {
	Engine          string
	FontPath        string // TTF UTF-8 opcional para maroto (nombres en coreano)
	WkhtmltopdfPath string
}

// HangulCapable indica si el motor elegido puede dibujar hangul: wkhtmltopdf usa las fuentes
// del sistema, maroto solo con PDF_FONT_PATH.
func (c PDFConfig) HangulCapable() bool {
	return c.Engine != PDFEngineMaroto || c.FontPath != ""
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, HISTORY_DRIVER, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo .env
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// También intenta config.env
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	vatRate, err := decimal.NewFromString(getString(v, "QUOTE_VAT_RATE", "0.10"))
	if err != nil {
		return nil, fmt.Errorf("QUOTE_VAT_RATE inválido: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "cotizador"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
			DocsPath: getString(v, "DOCS_PATH", "./docs/swagger.json"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Quote: QuoteConfig{
			DocPrefix: getString(v, "QUOTE_DOC_PREFIX", "HYQ"),
			OrgName:   getString(v, "QUOTE_ORG_NAME", "관세법인한영"),
			OrgCode:   getString(v, "QUOTE_ORG_CODE", "HYQ"),
			VATRate:   vatRate,
			ValidDays: getInt(v, "QUOTE_VALID_DAYS", 30),
			ExportDir: getString(v, "EXPORT_DIR", "."),
		},
		History: HistoryConfig{
			Driver:     strings.ToLower(getString(v, "HISTORY_DRIVER", HistoryDriverCSV)),
			CSVPath:    getString(v, "HISTORY_CSV_PATH", "consulting_quotes_history.csv"),
			SQLitePath: getString(v, "HISTORY_SQLITE_PATH", "quotes_history.db"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "cotizador"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		PDF: PDFConfig{
			Engine:          strings.ToLower(getString(v, "PDF_ENGINE", PDFEngineMaroto)),
			FontPath:        getString(v, "PDF_FONT_PATH", ""),
			WkhtmltopdfPath: getString(v, "WKHTMLTOPDF_PATH", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rechaza combinaciones que no permiten arrancar.
func (c *Config) Validate() error {
	switch c.History.Driver {
	case HistoryDriverCSV, HistoryDriverSQLite, HistoryDriverPostgres:
	default:
		return fmt.Errorf("HISTORY_DRIVER desconocido: %q", c.History.Driver)
	}
	switch c.PDF.Engine {
	case PDFEngineMaroto:
		if c.PDF.FontPath != "" {
			if _, err := os.Stat(c.PDF.FontPath); err != nil {
				return fmt.Errorf("PDF_FONT_PATH: %w", err)
			}
		}
	case PDFEngineWkhtmltopdf:
		if c.PDF.WkhtmltopdfPath == "" {
			return fmt.Errorf("PDF_ENGINE=wkhtmltopdf requiere WKHTMLTOPDF_PATH")
		}
	default:
		return fmt.Errorf("PDF_ENGINE desconocido: %q", c.PDF.Engine)
	}
	if c.Quote.VATRate.IsNegative() || c.Quote.VATRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("QUOTE_VAT_RATE debe estar entre 0 y 1")
	}
	if c.Quote.ValidDays < 0 {
		return fmt.Errorf("QUOTE_VALID_DAYS no puede ser negativo")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
