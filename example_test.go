// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tmp006_test

import (
	"log"
	"time"

	"github.com/GermanBionicSystems/tmp006"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// Example shows creating a TMP006 sensor and reading the object and die
// temperatures from it.
func Example() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	bus, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer bus.Close()

	dev, err := tmp006.NewI2C(bus, tmp006.DefaultAddress, nil)
	if err != nil {
		log.Fatal(err)
	}
	if !dev.Present() {
		log.Println("device IDs do not match a TMP006, continuing anyway")
	}

	env := &physic.Env{}
	for i := 0; i < 10; i++ {
		if err := dev.Sense(env); err != nil {
			log.Println(err)
		} else {
			die, _ := dev.DieTemperature()
			log.Printf("Object: %s   Die: %s\n", env.Temperature, die)
		}
		time.Sleep(5 * time.Second)
	}
	if err := dev.Halt(); err != nil {
		log.Fatal(err)
	}
}
