package model

import "time"

const DefaultTimeLayout string = time.RFC3339Nano
