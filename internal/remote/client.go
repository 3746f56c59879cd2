package remote

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/nemanja-m/chunkstat/pkg/chunk"
	"github.com/nemanja-m/chunkstat/pkg/local"
	"github.com/nemanja-m/chunkstat/pkg/syslog"
	"github.com/nemanja-m/chunkstat/pkg/tasks"
)

// Client is a local.Runner that sends every chunk to one of its workers,
// round-robin.
type Client struct {
	conns   []*grpc.ClientConn
	next    atomic.Uint64
	timeout time.Duration
}

// NewClient connects to every address. Extra options are appended to the
// defaults (insecure transport, keepalive).
func NewClient(addrs []string, timeout time.Duration, opts ...grpc.DialOption) (*Client, error) {
	if len(addrs) == 0 {
		return nil, errors.New("no worker addresses")
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(
			keepalive.ClientParameters{
				Time:                30 * time.Second,
				Timeout:             5 * time.Second,
				PermitWithoutStream: true,
			},
		),
	}, opts...)

	c := &Client{timeout: timeout}
	for _, addr := range addrs {
		conn, err := grpc.NewClient(addr, dialOpts...)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to connect to worker %s: %w", addr, err)
		}
		c.conns = append(c.conns, conn)
	}
	return c, nil
}

// Run sends req to the next worker. The source name is sent as the path the
// worker opens; the run's year and buffer size travel with it.
func (c *Client) Run(ctx context.Context, r local.Request) (tasks.ChunkState, error) {
	req, err := encodeRequest(chunkRequest{
		Path:       r.Source.Name(),
		Range:      r.Range,
		Kinds:      r.Kinds,
		Year:       r.Year,
		BufferSize: r.BufferSize,
	})
	if err != nil {
		return tasks.ChunkState{}, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	conn := c.conns[(c.next.Add(1)-1)%uint64(len(c.conns))]
	out := new(structpb.Struct)
	if err := conn.Invoke(ctx, processChunkMethod, req, out); err != nil {
		return tasks.ChunkState{}, fmt.Errorf("worker %s: %w", conn.Target(), fromStatus(err))
	}

	return decodeState(out)
}

func (c *Client) Close() error {
	var errs []error
	for _, conn := range c.conns {
		errs = append(errs, conn.Close())
	}
	return errors.Join(errs...)
}

// fromStatus maps worker status codes back onto the local sentinel errors.
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.DataLoss:
		return fmt.Errorf("%w: %s", syslog.ErrMalformedRecord, st.Message())
	case codes.NotFound, codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", chunk.ErrSourceUnreadable, st.Message())
	case codes.Canceled:
		return fmt.Errorf("%w: %s", context.Canceled, st.Message())
	case codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", context.DeadlineExceeded, st.Message())
	default:
		return err
	}
}
