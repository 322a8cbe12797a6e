package seleniumwrapper

import (
	"fmt"
	"io"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
	"github.com/tebeka/selenium/log"
	"github.com/tebeka/selenium/sauce"
)

// Default values of the Config fields.
const (
	DefaultTimeout      = 3 * time.Second
	DefaultPollInterval = 500 * time.Millisecond
	DefaultExecutor     = "http://127.0.0.1:4444/wd/hub"
)

// EnvPrefix is the prefix of the environment variables read by LoadConfig,
// e.g. SELENIUMWRAPPER_TIMEOUT.
const EnvPrefix = "seleniumwrapper"

// Config holds the settings shared by a Driver and every Element looked up
// through it, plus what Create needs to launch a local WebDriver service.
type Config struct {
	// Timeout bounds every wait and Click.
	Timeout time.Duration `envconfig:"TIMEOUT" default:"3s"`
	// PollInterval is the pause between two attempts of a wait.
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"500ms"`
	// Executor is the WebDriver URL Connect uses when none is given.
	Executor string `envconfig:"EXECUTOR" default:"http://127.0.0.1:4444/wd/hub"`

	// The following locate the binaries Create launches. A path that does not
	// exist is also tried as a glob prefix and then looked up in $PATH.
	ChromeDriverPath string `envconfig:"CHROMEDRIVER_PATH" default:"vendor/chromedriver"`
	GeckoDriverPath  string `envconfig:"GECKODRIVER_PATH" default:"vendor/geckodriver"`
	SeleniumPath     string `envconfig:"SELENIUM_PATH" default:"vendor/selenium-server.jar"`
	HTMLUnitPath     string `envconfig:"HTMLUNIT_PATH" default:"vendor/htmlunit-driver.jar"`
	JavaPath         string `envconfig:"JAVA_PATH"`

	// Port is the port of the launched service. Zero picks an unused one.
	Port int `envconfig:"PORT"`
	// FrameBuffer starts an Xvfb server for the launched browser.
	FrameBuffer bool `envconfig:"FRAME_BUFFER"`
	// Debug enables the client's request/response logging. The setting is
	// process-wide, see the Debug option.
	Debug bool `envconfig:"DEBUG"`

	caps           selenium.Capabilities
	serviceOptions []selenium.ServiceOption
	output         io.Writer
}

// DefaultConfig returns the configuration used when no environment or option
// overrides it.
func DefaultConfig() Config {
	return Config{
		Timeout:          DefaultTimeout,
		PollInterval:     DefaultPollInterval,
		Executor:         DefaultExecutor,
		ChromeDriverPath: "vendor/chromedriver",
		GeckoDriverPath:  "vendor/geckodriver",
		SeleniumPath:     "vendor/selenium-server.jar",
		HTMLUnitPath:     "vendor/htmlunit-driver.jar",
	}
}

// LoadConfig reads the configuration from SELENIUMWRAPPER_* environment
// variables, after loading a .env file from the working directory if there is
// one.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("read config from env vars: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("negative timeout %v", c.Timeout)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.PollInterval)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

// Option configures a Driver or Element.
type Option func(*Config) error

// WithConfig replaces the whole configuration, typically with the result of
// LoadConfig. Capabilities and service options set by earlier options are
// kept.
func WithConfig(cfg Config) Option {
	return func(c *Config) error {
		caps, sopts, out := c.caps, c.serviceOptions, c.output
		*c = cfg
		if c.caps == nil {
			c.caps = caps
		}
		c.serviceOptions = append(sopts, c.serviceOptions...)
		if c.output == nil {
			c.output = out
		}
		return nil
	}
}

// Timeout sets the default timeout of waits and clicks.
func Timeout(d time.Duration) Option {
	return func(c *Config) error {
		if d < 0 {
			return fmt.Errorf("negative timeout %v", d)
		}
		c.Timeout = d
		return nil
	}
}

// PollInterval sets the default pause between two attempts of a wait.
func PollInterval(d time.Duration) Option {
	return func(c *Config) error {
		if d <= 0 {
			return fmt.Errorf("poll interval must be positive, got %v", d)
		}
		c.PollInterval = d
		return nil
	}
}

// Executor sets the WebDriver URL used by Connect when it is given an empty
// one.
func Executor(u string) Option {
	return func(c *Config) error {
		c.Executor = u
		return nil
	}
}

// ChromeDriverPath sets the path to the chromedriver binary.
func ChromeDriverPath(path string) Option {
	return func(c *Config) error {
		c.ChromeDriverPath = path
		return nil
	}
}

// GeckoDriverPath sets the path to the geckodriver binary.
func GeckoDriverPath(path string) Option {
	return func(c *Config) error {
		c.GeckoDriverPath = path
		return nil
	}
}

// SeleniumPath sets the path to the Selenium standalone server JAR.
func SeleniumPath(path string) Option {
	return func(c *Config) error {
		c.SeleniumPath = path
		return nil
	}
}

// HTMLUnitPath sets the path to the HTMLUnit driver JAR.
func HTMLUnitPath(path string) Option {
	return func(c *Config) error {
		c.HTMLUnitPath = path
		return nil
	}
}

// JavaPath sets the Java runtime used to run the Selenium server.
func JavaPath(path string) Option {
	return func(c *Config) error {
		c.JavaPath = path
		return nil
	}
}

// Port sets the port of the launched WebDriver service.
func Port(port int) Option {
	return func(c *Config) error {
		if port < 0 || port > 65535 {
			return fmt.Errorf("invalid port %d", port)
		}
		c.Port = port
		return nil
	}
}

// FrameBuffer runs the launched browser inside an X virtual frame buffer.
func FrameBuffer() Option {
	return func(c *Config) error {
		c.FrameBuffer = true
		return nil
	}
}

// Display runs the launched browser on an existing X display.
func Display(display, xauthPath string) Option {
	return func(c *Config) error {
		c.serviceOptions = append(c.serviceOptions, selenium.Display(display, xauthPath))
		return nil
	}
}

// Output sends the launched service's output to w.
func Output(w io.Writer) Option {
	return func(c *Config) error {
		c.output = w
		return nil
	}
}

// Debug enables the client's request/response logging. The selenium client
// keeps this switch in a package variable, so it applies to every session in
// the process and stays on once set; call selenium.SetDebug(false) to turn it
// off.
func Debug() Option {
	return func(c *Config) error {
		c.Debug = true
		return nil
	}
}

// Capabilities merges caps into the desired capabilities of the session.
func Capabilities(caps selenium.Capabilities) Option {
	return func(c *Config) error {
		for k, v := range caps {
			c.capabilities()[k] = v
		}
		return nil
	}
}

// Chrome sets the Chrome-specific capabilities.
func Chrome(opts chrome.Capabilities) Option {
	return func(c *Config) error {
		c.capabilities().AddChrome(opts)
		return nil
	}
}

// Firefox sets the Firefox-specific capabilities.
func Firefox(opts firefox.Capabilities) Option {
	return func(c *Config) error {
		c.capabilities().AddFirefox(opts)
		return nil
	}
}

// Proxy sets the proxy the browser should use.
func Proxy(p selenium.Proxy) Option {
	return func(c *Config) error {
		c.capabilities().AddProxy(p)
		return nil
	}
}

// LogLevel sets the logging level of a browser log component.
func LogLevel(typ log.Type, level log.Level) Option {
	return func(c *Config) error {
		c.capabilities().SetLogLevel(typ, level)
		return nil
	}
}

// Sauce merges the Sauce Labs job options into the desired capabilities. Use
// it with Connect and sauce.Addr as the executor.
func Sauce(opts sauce.Capabilities) Option {
	return func(c *Config) error {
		m, err := opts.ToMap()
		if err != nil {
			return fmt.Errorf("sauce capabilities: %w", err)
		}
		for k, v := range m {
			c.capabilities()[k] = v
		}
		return nil
	}
}

func (c *Config) capabilities() selenium.Capabilities {
	if c.caps == nil {
		c.caps = make(selenium.Capabilities)
	}
	return c.caps
}

func newConfig(opts []Option) (*Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Debug {
		selenium.SetDebug(true)
	}
	return &cfg, nil
}
