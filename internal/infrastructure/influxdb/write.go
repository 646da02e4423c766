package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/meteolink/meteolink-core/internal/weather"
)

// WriteWeatherPoint records an admitted measurement in InfluxDB.
//
// The write is non-blocking; data is batched and sent asynchronously.
// Records without a timestamp are stamped with the current time.
//
// Parameters:
//   - source: Identifier of the publishing station or topic
//   - rec: The admitted measurement record
func (c *Client) WriteWeatherPoint(source string, rec weather.Record) {
	if !c.IsConnected() {
		return
	}

	ts := time.Now()
	if rec.Timestamp != nil {
		ts = *rec.Timestamp
	}

	point := write.NewPoint(
		"weather",
		map[string]string{
			"source": source,
		},
		map[string]interface{}{
			"temperature": rec.Temperature,
			"humidity":    rec.Humidity,
			"pressure":    rec.Pressure,
		},
		ts,
	)

	c.writeAPI.WritePoint(point)
}
