package nodeconfig

import (
	"fmt"

	"github.com/samber/lo"
)

const (
	NodeNameSeq                    = "NIMBUSIO_NODE_NAME_SEQ"
	EventPublisherPullAddress      = "NIMBUSIO_EVENT_PUBLISHER_PULL_ADDRESS"
	NodeName                       = "NIMBUSIO_NODE_NAME"
	WebServerPipelineAddress       = "NIMBUSIO_WEB_SERVER_PIPELINE_ADDRESS"
	DataReaderAddresses            = "NIMBUSIO_DATA_READER_ADDRESSES"
	DataWriterAddresses            = "NIMBUSIO_DATA_WRITER_ADDRESSES"
	SpaceAccountingServerAddress   = "NIMBUSIO_SPACE_ACCOUNTING_SERVER_ADDRESS"
	SpaceAccountingPipelineAddress = "NIMBUSIO_SPACE_ACCOUNTING_PIPELINE_ADDRESS"
	WebServerHost                  = "NIMBUSIO_WEB_SERVER_HOST"
	WebServerPort                  = "NIMBUSIO_WEB_SERVER_PORT"
	ClusterName                    = "NIMBUSIO_CLUSTER_NAME"
	LogDir                         = "NIMBUSIO_LOG_DIR"
	EventPublisherPubAddress       = "NIMBUSIO_EVENT_PUBLISHER_PUB_ADDRESS"
	AntiEntropyServerAddresses     = "NIMBUSIO_ANTI_ENTROPY_SERVER_ADDRESSES"
	HandoffServerAddresses         = "NIMBUSIO_HANDOFF_SERVER_ADDRESSES"
	RepositoryPath                 = "NIMBUSIO_REPOSITORY_PATH"
)

// DefaultWebServerPort is used when NIMBUSIO_WEB_SERVER_PORT is unset or empty.
const DefaultWebServerPort = 8088

// Catalog lists every variable a node config is expected to define, in the order
// the cluster tooling exports them.
var Catalog = []string{
	NodeNameSeq,
	EventPublisherPullAddress,
	NodeName,
	WebServerPipelineAddress,
	DataReaderAddresses,
	DataWriterAddresses,
	SpaceAccountingServerAddress,
	SpaceAccountingPipelineAddress,
	WebServerHost,
	WebServerPort,
	ClusterName,
	LogDir,
	EventPublisherPubAddress,
	AntiEntropyServerAddresses,
	HandoffServerAddresses,
	RepositoryPath,
}

// InCatalog reports whether name is one of the known cluster variables.
func InCatalog(name string) bool {
	return lo.Contains(Catalog, name)
}

// Empty returns every catalog variable bound to the empty string.
func Empty() []Var {
	return lo.Map(Catalog, func(name string, _ int) Var {
		return Var{Name: name}
	})
}

// FileName returns the config file name of a 1-based node number.
func FileName(node int) string {
	return fmt.Sprintf("node_%02d_config.sh", node)
}
