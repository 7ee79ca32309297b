// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// tmp006 reads the object and die temperatures from a TMP006 infrared
// thermopile sensor and prints them in a loop.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/GermanBionicSystems/tmp006"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

func main() {
	busName := flag.String("bus", "", "name of the I²C bus, empty for the first available")
	addr := flag.Uint("address", uint(tmp006.DefaultAddress), "I²C address of the sensor")
	rate := flag.Int("samples", 16, "samples averaged per conversion (1, 2, 4, 8 or 16)")
	interval := flag.Duration("interval", 5*time.Second, "time between readings")
	flag.Parse()

	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	bus, err := i2creg.Open(*busName)
	if err != nil {
		log.Fatal(err)
	}
	defer bus.Close()

	dev, err := tmp006.NewI2C(bus, uint16(*addr), &tmp006.Opts{SampleRate: tmp006.SampleRate(*rate)})
	if err != nil {
		log.Fatal(err)
	}
	if !dev.Present() {
		log.Print("warning: device IDs do not match a TMP006")
	}

	ticker := time.NewTicker(*interval)
	for {
		var e physic.Env
		if err := dev.Sense(&e); err != nil {
			log.Print(err)
		} else {
			die, _ := dev.DieTemperature()
			log.Printf("Object: %.3f°C   Die: %.3f°C", e.Temperature.Celsius(), die.Celsius())
		}
		<-ticker.C
	}
}
