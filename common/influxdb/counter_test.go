package influxdb_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bytearena/robotworld/common/influxdb"
	"github.com/bytearena/robotworld/common/utils"
)

func TestAdd(t *testing.T) {
	counter := influxdb.NewCounter()

	counter.Add(1)

	assert.Equal(t, 1, counter.Get())
	assert.Equal(t, 1, counter.Flush())
	assert.Equal(t, 0, counter.Flush())
}

func TestConcurrentInc(t *testing.T) {
	counter := influxdb.NewCounter()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				counter.Inc()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, counter.Flush())
}

func TestRobotMetricsFields(t *testing.T) {
	m := influxdb.NewRobotMetrics()
	m.Steps.Add(3)
	m.Negotiations.Add(1)

	fields := m.Fields()
	assert.Equal(t, 3, fields["steps"])
	assert.Equal(t, 1, fields["negotiations"])
	assert.Equal(t, 0, fields["collisions"])

	assert.Equal(t, 0, m.Fields()["steps"])
}

func TestStubClient(t *testing.T) {
	utils.SetQuiet(true)
	defer utils.SetQuiet(false)

	c := influxdb.NewStubClient("test")
	assert.True(t, c.IsStub())

	c.WriteAppMetric("robot", map[string]interface{}{"steps": 1})
	c.TearDown()
	c.TearDown()
}
