package main

import (
	_ "time/tzdata"

	"github.com/kamgaa/lab-reservation/internal/initializers"
)

func main() {
	initializers.RunLabReservation()
}
