package report

import (
	"context"
	"log"
	"net"
	"strconv"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// greptimeClient is the slice of the ingester client the writer uses.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes per-cohort skill records to GreptimeDB via the
// ingester client, one row per observation time. GreptimeDB creates the table
// from the row schema on first write.
type GreptimeDBWriter struct {
	client greptimeClient
	table  string
}

// NewGreptimeDBWriter creates a new GreptimeDB writer. endpoint is the gRPC
// address, "host" or "host:port".
func NewGreptimeDBWriter(endpoint, database, tableName string) (*GreptimeDBWriter, error) {
	if tableName == "" {
		tableName = "fire_validation_skill"
	}

	host, port := splitEndpoint(endpoint)
	cfg := greptime.NewConfig(host).WithDatabase(database)
	if port > 0 {
		cfg.WithPort(port)
	}
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &GreptimeDBWriter{client: client, table: tableName}, nil
}

func splitEndpoint(endpoint string) (host string, port int) {
	h, p, err := net.SplitHostPort(endpoint)
	if err != nil {
		return endpoint, 0
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		return endpoint, 0
	}
	return h, n
}

// WriteSummary inserts one row per skill record.
func (w *GreptimeDBWriter) WriteSummary(s Summary) error {
	if len(s.Records) == 0 {
		return nil
	}

	tbl, err := table.New(w.table)
	if err != nil {
		return err
	}
	for _, err := range []error{
		tbl.AddTagColumn("case_name", types.STRING),
		tbl.AddTagColumn("run_id", types.STRING),
		tbl.AddFieldColumn("cohort", types.INT64),
		tbl.AddFieldColumn("kappa", types.FLOAT64),
		tbl.AddFieldColumn("t_sim_s", types.FLOAT64),
		tbl.AddFieldColumn("t_obs_s", types.FLOAT64),
		tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND),
	} {
		if err != nil {
			return err
		}
	}

	for _, r := range s.Records {
		ts := s.StartUTC.Add(time.Duration(r.ObsSeconds * float64(time.Second)))
		if err := tbl.AddRow(s.Case, s.RunID, int64(r.Cohort),
			nullable(r.Kappa.Ptr()), nullable(r.SimSeconds.Ptr()), r.ObsSeconds, ts); err != nil {
			return err
		}
	}

	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		log.Printf("[GreptimeDBWriter] Write failed: %v", err)
		return err
	}

	log.Printf("[GreptimeDBWriter] wrote %d rows", len(s.Records))
	return nil
}

// nullable unwraps a possibly-nil float pointer into an interface value the
// ingester encodes as NULL when absent.
func nullable(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
