package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Shanghai")
	if err != nil {
		panic(err)
	}
}

// force timezone to be the target campus's because our servers
// may be deployed elsewhere, which causes disturbances when
// manipulating dates based on <time.Time>.Year()/Month()/Day()/Hour()/...
func Now() time.Time {
	return time.Now().In(Location)
}
