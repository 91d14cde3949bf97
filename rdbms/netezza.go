package rdbms

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/relloyd/housepipe/constants"
	"github.com/relloyd/housepipe/helper"
)

var reNetezzaDsn = regexp.MustCompile(`^netezza://.+?/.+?@//.+:[0-9]+/.+$`)

// NetezzaConnectionString converts netezza://user/pass@//host:port/dbname?k=v&k2=v2
// into the space separated key=value format required by nzgo.
func NetezzaConnectionString(d string) (string, error) {
	if !reNetezzaDsn.MatchString(d) {
		return "", errors.New("unsupported Netezza DSN format")
	}
	dsn := strings.TrimPrefix(d, constants.ConnectionTypeNetezza+"://")
	userPwd, theRest := helper.SplitRight(dsn, `@`)
	user, pass := helper.Split(userPwd, `/`)
	hostPort, dbNameParams := helper.SplitRight(theRest, `/`)
	host, port := helper.SplitRight(hostPort, `:`)
	host = strings.TrimLeft(host, "/")
	dbName, params := helper.Split(dbNameParams, `?`)
	params = strings.Replace(params, "&", " ", -1)
	return strings.TrimSpace(fmt.Sprintf("user=%s password='%s' host=%s port=%s dbname=%s logLevel=Off %s", user, pass, host, port, dbName, params)), nil
}

// redactNetezza hides the password between the first '/' after the scheme and the last '@'.
func redactNetezza(d string) string {
	dsn := strings.TrimPrefix(d, constants.ConnectionTypeNetezza+"://")
	userPwd, theRest := helper.SplitRight(dsn, `@`)
	if theRest == "" {
		return d
	}
	user, _ := helper.Split(userPwd, `/`)
	return fmt.Sprintf("%v://%v/xxxxxxx@%v", constants.ConnectionTypeNetezza, user, theRest)
}
