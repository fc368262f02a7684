package nodeconfig

import (
	"fmt"
	"net"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// Settings is the typed view of the cluster variables of a node config.
// List variables are whitespace separated, the way the cluster services split them.
type Settings struct {
	NodeNames   []string `json:"NIMBUSIO_NODE_NAME_SEQ" yaml:"NIMBUSIO_NODE_NAME_SEQ" validate:"dive,required"`
	NodeName    string   `json:"NIMBUSIO_NODE_NAME" yaml:"NIMBUSIO_NODE_NAME"`
	ClusterName string   `json:"NIMBUSIO_CLUSTER_NAME" yaml:"NIMBUSIO_CLUSTER_NAME"`

	EventPublisherPullAddress      string `json:"NIMBUSIO_EVENT_PUBLISHER_PULL_ADDRESS" yaml:"NIMBUSIO_EVENT_PUBLISHER_PULL_ADDRESS" validate:"omitempty,endpoint"`
	EventPublisherPubAddress       string `json:"NIMBUSIO_EVENT_PUBLISHER_PUB_ADDRESS" yaml:"NIMBUSIO_EVENT_PUBLISHER_PUB_ADDRESS" validate:"omitempty,endpoint"`
	WebServerPipelineAddress       string `json:"NIMBUSIO_WEB_SERVER_PIPELINE_ADDRESS" yaml:"NIMBUSIO_WEB_SERVER_PIPELINE_ADDRESS" validate:"omitempty,endpoint"`
	SpaceAccountingServerAddress   string `json:"NIMBUSIO_SPACE_ACCOUNTING_SERVER_ADDRESS" yaml:"NIMBUSIO_SPACE_ACCOUNTING_SERVER_ADDRESS" validate:"omitempty,endpoint"`
	SpaceAccountingPipelineAddress string `json:"NIMBUSIO_SPACE_ACCOUNTING_PIPELINE_ADDRESS" yaml:"NIMBUSIO_SPACE_ACCOUNTING_PIPELINE_ADDRESS" validate:"omitempty,endpoint"`

	DataReaderAddresses        []string `json:"NIMBUSIO_DATA_READER_ADDRESSES" yaml:"NIMBUSIO_DATA_READER_ADDRESSES" validate:"dive,endpoint"`
	DataWriterAddresses        []string `json:"NIMBUSIO_DATA_WRITER_ADDRESSES" yaml:"NIMBUSIO_DATA_WRITER_ADDRESSES" validate:"dive,endpoint"`
	AntiEntropyServerAddresses []string `json:"NIMBUSIO_ANTI_ENTROPY_SERVER_ADDRESSES" yaml:"NIMBUSIO_ANTI_ENTROPY_SERVER_ADDRESSES" validate:"dive,endpoint"`
	HandoffServerAddresses     []string `json:"NIMBUSIO_HANDOFF_SERVER_ADDRESSES" yaml:"NIMBUSIO_HANDOFF_SERVER_ADDRESSES" validate:"dive,endpoint"`

	WebServerHost string `json:"NIMBUSIO_WEB_SERVER_HOST" yaml:"NIMBUSIO_WEB_SERVER_HOST" validate:"omitempty,hostname_rfc1123|ip"`
	WebServerPort int    `json:"NIMBUSIO_WEB_SERVER_PORT" yaml:"NIMBUSIO_WEB_SERVER_PORT" validate:"gte=1,lte=65535"`

	LogDir         string `json:"NIMBUSIO_LOG_DIR" yaml:"NIMBUSIO_LOG_DIR"`
	RepositoryPath string `json:"NIMBUSIO_REPOSITORY_PATH" yaml:"NIMBUSIO_REPOSITORY_PATH"`
}

// Settings converts the cluster variables of c into their typed form.
func (c *NodeConfig) Settings() (Settings, error) {
	get := func(name string) string {
		value, _ := c.Get(name)
		return value
	}

	port := DefaultWebServerPort
	if raw := strings.TrimSpace(get(WebServerPort)); raw != "" {
		var err error
		if port, err = strconv.Atoi(raw); err != nil {
			return Settings{}, fmt.Errorf("%s is not a valid port: %w", WebServerPort, err)
		}
	}

	return Settings{
		NodeNames:   strings.Fields(get(NodeNameSeq)),
		NodeName:    get(NodeName),
		ClusterName: get(ClusterName),

		EventPublisherPullAddress:      get(EventPublisherPullAddress),
		EventPublisherPubAddress:       get(EventPublisherPubAddress),
		WebServerPipelineAddress:       get(WebServerPipelineAddress),
		SpaceAccountingServerAddress:   get(SpaceAccountingServerAddress),
		SpaceAccountingPipelineAddress: get(SpaceAccountingPipelineAddress),

		DataReaderAddresses:        strings.Fields(get(DataReaderAddresses)),
		DataWriterAddresses:        strings.Fields(get(DataWriterAddresses)),
		AntiEntropyServerAddresses: strings.Fields(get(AntiEntropyServerAddresses)),
		HandoffServerAddresses:     strings.Fields(get(HandoffServerAddresses)),

		WebServerHost: get(WebServerHost),
		WebServerPort: port,

		LogDir:         get(LogDir),
		RepositoryPath: get(RepositoryPath),
	}, nil
}

// Validate the settings for basic semantic errors.
func (s Settings) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	lo.Must0(validate.RegisterValidation("endpoint", func(fl validator.FieldLevel) bool {
		return ValidEndpoint(fl.Field().String())
	}))

	if err := validate.Struct(s); err != nil {
		return err
	}

	if s.NodeName != "" && len(s.NodeNames) > 0 && !lo.Contains(s.NodeNames, s.NodeName) {
		return fmt.Errorf("%s '%s' is not listed in %s", NodeName, s.NodeName, NodeNameSeq)
	}

	return nil
}

// ValidEndpoint reports whether address is a ZeroMQ endpoint the cluster services
// can bind or connect to: tcp://host:port or ipc://path.
func ValidEndpoint(address string) bool {
	scheme, rest, ok := strings.Cut(address, "://")
	if !ok {
		return false
	}

	switch scheme {
	case "tcp":
		host, port, err := net.SplitHostPort(rest)
		if err != nil || host == "" {
			return false
		}
		n, err := strconv.Atoi(port)
		return err == nil && n > 0 && n <= 65535
	case "ipc":
		return rest != ""
	default:
		return false
	}
}
