// Package weather reads temperature and humidity from a DHT11. The DHT11
// must not be polled more than once every two seconds, so reads inside that
// window are answered from the last good measurement.
package weather

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/dht"
)

// minInterval is the DHT11's minimum time between measurements.
const minInterval = 2 * time.Second

// Reading is one measurement.
type Reading struct {
	Temperature float32
	Humidity    float32 // relative, in percent
	Cached      bool    // true when served from the last good measurement
}

// Sensor is a throttled DHT11.
type Sensor struct {
	dev   dht.Device
	scale dht.TemperatureScale
	last  Reading
	at    time.Time // when last was measured, zero if never
}

// New returns a Sensor on pin reporting temperatures in scale.
func New(pin machine.Pin, scale dht.TemperatureScale) *Sensor {
	return &Sensor{
		dev:   dht.New(pin, dht.DHT11),
		scale: scale,
	}
}

// Read returns a fresh measurement, or the cached one if the sensor was read
// less than two seconds ago. When the sensor fails and a cached reading
// exists, the cached reading is returned along with the error.
func (s *Sensor) Read() (Reading, error) {
	now := time.Now()
	if !s.at.IsZero() && now.Sub(s.at) < minInterval {
		return s.cached(), nil
	}

	r, err := s.measure()
	if err != nil {
		return s.cached(), err
	}
	s.last, s.at = r, now
	return r, nil
}

func (s *Sensor) measure() (Reading, error) {
	if err := s.dev.ReadMeasurements(); err != nil {
		return Reading{}, err
	}
	temp, err := s.dev.TemperatureFloat(s.scale)
	if err != nil {
		return Reading{}, err
	}
	hum, err := s.dev.HumidityFloat()
	if err != nil {
		return Reading{}, err
	}
	return Reading{Temperature: temp, Humidity: hum}, nil
}

// cached returns the last good reading marked as cached, or the zero
// Reading when there is none.
func (s *Sensor) cached() Reading {
	if s.at.IsZero() {
		return Reading{}
	}
	r := s.last
	r.Cached = true
	return r
}
