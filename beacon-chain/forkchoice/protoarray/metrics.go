package protoarray

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	processedBlockCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "protoarray_processed_block_total",
		Help: "Number of blocks processed by the fork choice store.",
	})
	processedAttestationCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "protoarray_processed_attestation_total",
		Help: "Number of attestations processed by the fork choice store.",
	})
	calledHeadCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "protoarray_called_head_total",
		Help: "Number of times head has been computed.",
	})
	nodeCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "protoarray_node_count",
		Help: "Number of nodes currently held in the fork choice arena.",
	})
)
