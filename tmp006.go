// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tmp006

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// SampleRate is the number of ADC samples the sensor averages for each
// conversion. Higher values trade conversion time for lower noise.
type SampleRate int

const (
	Sample1  SampleRate = 1
	Sample2  SampleRate = 2
	Sample4  SampleRate = 4
	Sample8  SampleRate = 8
	Sample16 SampleRate = 16

	// DefaultAddress is the I²C address of the device with both address
	// pins tied to ground.
	DefaultAddress uint16 = 0x40
)

const (
	// Addresses of registers to read/write. All registers are 16 bits,
	// big-endian on the wire.
	regVoltage        byte = 0x00
	regDieTemperature byte = 0x01
	regConfiguration  byte = 0x02
	regManufacturerID byte = 0xfe
	regDeviceID       byte = 0xff

	// Configuration register bits. Bits 9-11 select the sample rate.
	configReset           uint16 = 0x8000
	configModeOn          uint16 = 0x7000
	configDataReadyEnable uint16 = 0x0100

	// DataReady is set in the configuration word when a conversion has
	// completed and the result registers hold fresh data.
	DataReady uint16 = 0x0080

	expectedManufacturerID uint16 = 0x5449
	expectedDeviceID       uint16 = 0x0067

	// One count of the voltage register is 156.25 nV.
	nanoVoltsPerCount = 156.25
	// One count of the shifted die temperature register is 1/32 °C.
	dieCelsiusPerCount = 0.03125
)

// Calibration coefficients for the thermopile model, from TI application
// note SBOU107. These are fixed for the sensor family and never recomputed.
const (
	calibrationB0   = -0.0000294
	calibrationB1   = -0.00000057
	calibrationB2   = 0.00000000463
	calibrationC2   = 13.4
	calibrationTRef = 298.15
	calibrationA1   = 0.00175
	calibrationA2   = -0.00001678
	calibrationS0   = 6.4 // * 10^-14
)

// sampleRateMasks maps an averaging depth to its configuration register
// bits. Membership in this map is what makes a SampleRate valid.
var sampleRateMasks = map[SampleRate]uint16{
	Sample1:  0x0000,
	Sample2:  0x0200,
	Sample4:  0x0400,
	Sample8:  0x0600,
	Sample16: 0x0800,
}

// Worst case conversion times per sample rate, from the datasheet.
var conversionDurations = map[SampleRate]time.Duration{
	Sample1:  260 * time.Millisecond,
	Sample2:  510 * time.Millisecond,
	Sample4:  1010 * time.Millisecond,
	Sample8:  2010 * time.Millisecond,
	Sample16: 4010 * time.Millisecond,
}

var errInvalidSampleRate = errors.New("tmp006: invalid sample rate")

// Opts holds the configuration options for the device.
type Opts struct {
	// SampleRate selects the averaging depth for each conversion. It must
	// be one of the Sample* constants.
	SampleRate SampleRate
}

// DefaultOpts uses 16 samples per conversion for the lowest noise.
var DefaultOpts = Opts{SampleRate: Sample16}

// Dev represents a TMP006 sensor.
type Dev struct {
	d        *i2c.Dev
	mu       sync.Mutex
	shutdown chan struct{}
	opts     *Opts
	present  bool
}

// NewI2C returns a new TMP006 sensor using the specified bus and address,
// powered on and converting. If opts is nil, DefaultOpts is used.
//
// The manufacturer and device ID registers are read during setup and
// compared against the values in the datasheet. A mismatch does not fail
// construction; it is reported through Present so the caller decides
// whether to proceed.
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if _, ok := sampleRateMasks[opts.SampleRate]; !ok {
		return nil, errInvalidSampleRate
	}
	dev := &Dev{d: &i2c.Dev{Bus: b, Addr: addr}, opts: opts}
	if err := dev.start(); err != nil {
		return nil, err
	}
	mid, err := dev.readRegister(regManufacturerID)
	if err != nil {
		return nil, fmt.Errorf("tmp006: reading manufacturer id %w", err)
	}
	did, err := dev.readRegister(regDeviceID)
	if err != nil {
		return nil, fmt.Errorf("tmp006: reading device id %w", err)
	}
	dev.present = mid == expectedManufacturerID && did == expectedDeviceID
	return dev, nil
}

// start turns the sensor on and begins converting at the configured rate.
func (dev *Dev) start() error {
	config := configModeOn | configDataReadyEnable | sampleRateMasks[dev.opts.SampleRate]
	if err := dev.writeConfiguration(config); err != nil {
		return fmt.Errorf("tmp006: init %w", err)
	}
	return nil
}

// readRegister reads a 16 bit big-endian register.
func (dev *Dev) readRegister(reg byte) (uint16, error) {
	r := make([]byte, 2)
	if err := dev.d.Tx([]byte{reg}, r); err != nil {
		return 0, err
	}
	return uint16(r[0])<<8 | uint16(r[1]), nil
}

// writeConfiguration writes the configuration register, high byte first per
// the device's big-endian register convention.
func (dev *Dev) writeConfiguration(config uint16) error {
	return dev.d.Tx([]byte{regConfiguration, byte(config >> 8), byte(config)}, nil)
}

// Present reports whether the manufacturer and device IDs read during setup
// matched a TMP006.
func (dev *Dev) Present() bool {
	return dev.present
}

// ReadConfiguration returns the device's configuration register. Refer to
// the datasheet for interpretation. The DataReady bit is set when a
// conversion has completed.
func (dev *Dev) ReadConfiguration() (uint16, error) {
	config, err := dev.readRegister(regConfiguration)
	if err != nil {
		return 0, fmt.Errorf("tmp006: reading configuration %w", err)
	}
	return config, nil
}

// setMode sets or clears the mode-on bits, leaving the rest of the
// configuration register untouched.
func (dev *Dev) setMode(on bool) error {
	config, err := dev.readRegister(regConfiguration)
	if err != nil {
		return fmt.Errorf("tmp006: reading configuration %w", err)
	}
	if on {
		config |= configModeOn
	} else {
		config &^= configModeOn
	}
	if err := dev.writeConfiguration(config); err != nil {
		return fmt.Errorf("tmp006: writing configuration %w", err)
	}
	return nil
}

// Sleep puts the sensor into its low power mode. Measurements stop until
// Wake is called. Sleeping an already sleeping device is a no-op.
func (dev *Dev) Sleep() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.setMode(false)
}

// Wake resumes conversions after a Sleep. Waking an already active device
// is a no-op.
func (dev *Dev) Wake() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.setMode(true)
}

// Reset issues a device reset and restores the configured sample rate.
func (dev *Dev) Reset() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if err := dev.writeConfiguration(configReset); err != nil {
		return fmt.Errorf("tmp006: reset %w", err)
	}
	return dev.start()
}

// ReadRawVoltage returns the signed thermopile voltage register count. One
// count is 156.25 nV.
func (dev *Dev) ReadRawVoltage() (int16, error) {
	raw, err := dev.readRegister(regVoltage)
	if err != nil {
		return 0, fmt.Errorf("tmp006: reading voltage %w", err)
	}
	return int16(raw), nil
}

// ReadRawDieTemperature returns the signed die temperature count. The two
// low register bits carry no data and are shifted out; one count of the
// result is 1/32 °C.
func (dev *Dev) ReadRawDieTemperature() (int16, error) {
	raw, err := dev.readRegister(regDieTemperature)
	if err != nil {
		return 0, fmt.Errorf("tmp006: reading die temperature %w", err)
	}
	return int16(raw) >> 2, nil
}

// countToDieTemperature converts a shifted die temperature count to a
// temperature.
func countToDieTemperature(count int16) physic.Temperature {
	f := float64(count) * dieCelsiusPerCount
	return physic.ZeroCelsius + physic.Temperature(f*float64(physic.Kelvin))
}

// objectCelsius computes the object temperature in °C from the raw
// thermopile voltage count and the shifted die temperature count, following
// the model in TI application note SBOU107. The operation order follows the
// reference implementation, including the two successive divisions by 1e7
// that scale the sensitivity coefficient, to reproduce its rounding.
//
// The model is only valid within the sensor's specified operating range.
// Physically implausible inputs can drive the radicand negative and yield
// NaN; no domain validation is performed.
func objectCelsius(rawVoltage, rawDie int16) float64 {
	vObj := float64(rawVoltage)
	vObj *= nanoVoltsPerCount
	vObj /= 1000000000.0 // nV to V
	tDie := float64(rawDie)*dieCelsiusPerCount + 273.14 // kelvin
	tRef := tDie - calibrationTRef
	s := 1.0 + calibrationA1*tRef + calibrationA2*tRef*tRef
	s *= calibrationS0
	s /= 10000000.0
	s /= 10000000.0
	vOS := calibrationB0 + calibrationB1*tRef + calibrationB2*tRef*tRef
	fObj := (vObj - vOS) + calibrationC2*(vObj-vOS)*(vObj-vOS)
	tDie2 := tDie * tDie
	tObj := math.Sqrt(math.Sqrt(tDie2*tDie2 + fObj/s))
	return tObj - 273.15
}

// DieTemperature returns the temperature of the sensor die itself. The die
// temperature is the cold junction reference for the object temperature
// model.
func (dev *Dev) DieTemperature() (physic.Temperature, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	raw, err := dev.ReadRawDieTemperature()
	if err != nil {
		return 0, err
	}
	return countToDieTemperature(raw), nil
}

// ObjectTemperature returns the temperature of the object in the sensor's
// field of view.
func (dev *Dev) ObjectTemperature() (physic.Temperature, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.objectTemperature()
}

// objectTemperature reads both result registers and runs the model. The
// caller must hold dev.mu.
func (dev *Dev) objectTemperature() (physic.Temperature, error) {
	rawDie, err := dev.ReadRawDieTemperature()
	if err != nil {
		return 0, err
	}
	rawVoltage, err := dev.ReadRawVoltage()
	if err != nil {
		return 0, err
	}
	f := objectCelsius(rawVoltage, rawDie)
	return physic.ZeroCelsius + physic.Temperature(f*float64(physic.Kelvin)), nil
}

// Sense reads the object temperature from the device and writes the value
// to the specified env variable. The pressure and humidity fields are not
// set. Implements physic.SenseEnv.
func (dev *Dev) Sense(env *physic.Env) error {
	env.Pressure = 0
	env.Humidity = 0
	dev.mu.Lock()
	defer dev.mu.Unlock()
	t, err := dev.objectTemperature()
	if err != nil {
		return err
	}
	env.Temperature = t
	return nil
}

// SenseContinuous continuously reads from the device and sends the output
// to the returned channel. The interval cannot be shorter than the
// conversion time of the configured sample rate. To terminate the read,
// call Halt. Implements physic.SenseEnv.
func (dev *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if dev.shutdown != nil {
		return nil, errors.New("tmp006: SenseContinuous already running")
	}
	if minInterval := conversionDurations[dev.opts.SampleRate]; interval < minInterval {
		return nil, fmt.Errorf("tmp006: interval %s is shorter than the %s conversion time", interval, minInterval)
	}
	dev.shutdown = make(chan struct{})
	ch := make(chan physic.Env, 16)
	go func(ch chan<- physic.Env) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		defer close(ch)
		for {
			select {
			case <-dev.shutdown:
				dev.mu.Lock()
				defer dev.mu.Unlock()
				dev.shutdown = nil
				return
			case <-ticker.C:
				env := physic.Env{}
				if err := dev.Sense(&env); err == nil {
					ch <- env
				}
			}
		}
	}(ch)
	return ch, nil
}

// Halt stops a running SenseContinuous and puts the device into its low
// power mode. Implements conn.Resource.
func (dev *Dev) Halt() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if dev.shutdown != nil {
		close(dev.shutdown)
	}
	return dev.setMode(false)
}

// Precision returns the die temperature resolution of 1/32 °C. The object
// temperature is a computed value whose resolution also depends on the
// thermopile voltage. Implements physic.SenseEnv.
func (dev *Dev) Precision(env *physic.Env) {
	env.Temperature = 31_250 * physic.MicroKelvin
	env.Pressure = 0
	env.Humidity = 0
}

func (dev *Dev) String() string {
	return fmt.Sprintf("tmp006: %s", dev.d.String())
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
