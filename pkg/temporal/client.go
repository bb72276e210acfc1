package temporal

import (
	"context"
	"time"

	"github.com/canopy-network/stakex/pkg/utils"
	"go.uber.org/zap"

	"go.temporal.io/api/enums/v1"
	taskqueuepb "go.temporal.io/api/taskqueue/v1"
	workflowservicepb "go.temporal.io/api/workflowservice/v1"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/log"
)

// Client bundles the Temporal connection with the stakex queue layout.
type Client struct {
	TClient   client.Client
	Namespace string

	// staking - withdraw, unstake and pool selection workflows and their activities
	StakingQueue string
}

// Health reports the connection and the pollers of the staking queue.
type Health struct {
	ConnectionOK bool                      `json:"connection_ok"`
	StakingQueue []*taskqueuepb.PollerInfo `json:"staking_queue"`
}

// NewClient connects using TEMPORAL_HOSTPORT and TEMPORAL_NAMESPACE.
func NewClient(ctx context.Context, logger *zap.Logger) (*Client, error) {
	host := utils.Env("TEMPORAL_HOSTPORT", "localhost:7233")
	ns := utils.Env("TEMPORAL_NAMESPACE", DefaultNamespace)

	logger.Info("Connecting to Temporal", zap.String("host", host), zap.String("namespace", ns))
	tClient, err := Dial(ctx, host, ns, NewZapAdapter(logger))
	if err != nil {
		return nil, err
	}

	if _, err = tClient.CheckHealth(ctx, nil); err != nil {
		tClient.Close()
		return nil, err
	}

	return &Client{
		TClient:      tClient,
		Namespace:    ns,
		StakingQueue: utils.Env("TEMPORAL_STAKING_QUEUE", QueueStaking),
	}, nil
}

// Dial connects to Temporal using the provided hostPort and namespace.
func Dial(ctx context.Context, hostPort, namespace string, logger log.Logger) (client.Client, error) {
	return client.DialContext(
		ctx,
		client.Options{
			HostPort:  hostPort,
			Namespace: namespace,
			Logger:    logger,
		},
	)
}

// GetStakingQueue returns the staking task queue.
func (c *Client) GetStakingQueue() string { return c.StakingQueue }

// Health returns the health of the Temporal client.
func (c *Client) Health(ctx context.Context) (Health, error) {
	h := Health{ConnectionOK: true}
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	if _, err := c.TClient.CheckHealth(ctx, nil); err != nil {
		h.ConnectionOK = false
		return h, err
	}
	if svc := c.TClient.WorkflowService(); svc != nil {
		if rep, err := svc.DescribeTaskQueue(ctx, &workflowservicepb.DescribeTaskQueueRequest{
			Namespace:     c.Namespace,
			TaskQueue:     &taskqueuepb.TaskQueue{Name: c.StakingQueue},
			TaskQueueType: enums.TASK_QUEUE_TYPE_WORKFLOW,
		}); err == nil {
			h.StakingQueue = rep.GetPollers()
		}
	}
	return h, nil
}

// Close closes the underlying connection.
func (c *Client) Close() {
	c.TClient.Close()
}
