package influxdb

import (
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/influxdata/influxdb/client/v2"

	"github.com/bytearena/robotworld/common/utils"
)

const FlushInterval = 5 * time.Second

// Client reports metrics to InfluxDB, or only logs them when INFLUXDB_ADDR
// and INFLUXDB_DB are unset.
type Client struct {
	isStub bool

	appName        string
	database       string
	influxdbClient client.Client

	tickerChannel *time.Ticker
	stop          chan struct{}
	stopOnce      sync.Once
}

func createHttpClient(addr string) (client.Client, error) {
	return client.NewHTTPClient(client.HTTPConfig{
		Addr: addr,
	})
}

func NewClient(appName string) (*Client, error) {
	return newClient(appName, os.Getenv("INFLUXDB_ADDR"), os.Getenv("INFLUXDB_DB"))
}

func NewStubClient(appName string) *Client {
	c, _ := newClient(appName, "", "")
	return c
}

func newClient(appName string, influxdbAddr string, influxdbDb string) (*Client, error) {
	stubClient := &Client{
		isStub:        true,
		appName:       appName,
		tickerChannel: time.NewTicker(FlushInterval),
		stop:          make(chan struct{}),
	}

	if influxdbAddr == "" && influxdbDb == "" {
		utils.Debug("influxdb", "No client has been configured")
		return stubClient, nil
	}

	influxdbClient, err := createHttpClient(influxdbAddr)
	if err != nil {
		return stubClient, err
	}

	utils.Debug("influxdb", "Influxdb reporting is enabled")

	return &Client{
		isStub:         false,
		appName:        appName,
		database:       influxdbDb,
		influxdbClient: influxdbClient,
		tickerChannel:  stubClient.tickerChannel,
		stop:           stubClient.stop,
	}, nil
}

func (c *Client) IsStub() bool {
	return c.isStub
}

func (c *Client) WriteAppMetric(name string, fields map[string]interface{}) {
	if c.isStub {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if v, ok := fields[k].(int); ok {
				parts = append(parts, k+"="+strconv.Itoa(v))
			}
		}

		utils.Debug("influxdb-debug", name+" "+strings.Join(parts, " "))
		return
	}

	bp, err := client.NewBatchPoints(client.BatchPointsConfig{
		Database: c.database,
	})
	if err != nil {
		utils.Warn("influxdb", err)
		return
	}

	tags := map[string]string{"app": c.appName}

	pt, err := client.NewPoint(name, tags, fields, time.Now())
	if err != nil {
		utils.Warn("influxdb", err)
		return
	}

	bp.AddPoint(pt)

	if err := c.influxdbClient.Write(bp); err != nil {
		utils.Warn("influxdb", err)
	}
}

// Loop calls fn on every tick until TearDown.
func (c *Client) Loop(fn func()) {
	go func() {
		for {
			select {
			case <-c.stop:
				return
			case <-c.tickerChannel.C:
				fn()
			}
		}
	}()
}

func (c *Client) TearDown() {
	c.stopOnce.Do(func() {
		c.tickerChannel.Stop()
		close(c.stop)

		if c.influxdbClient != nil {
			c.influxdbClient.Close()
		}
	})
}
