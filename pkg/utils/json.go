package utils

import (
	"bytes"
	"fmt"
	"reflect"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func PrettyJson(in any) string {
	var buffer []byte
	var err error

	if reflect.TypeOf(in) != reflect.TypeOf([]byte{}) {
		buffer, err = json.Marshal(in)
		if err != nil {
			fmt.Println(err)
		}
	} else {
		buffer = in.([]byte)
	}

	var out bytes.Buffer
	err = jsonIndent(&out, buffer)
	if err != nil {
		fmt.Println(err)
	}

	return out.String()
}

func jsonIndent(out *bytes.Buffer, buffer []byte) error {
	var value any
	if err := json.Unmarshal(buffer, &value); err != nil {
		return err
	}

	indented, err := json.MarshalIndent(value, "", "\t")
	if err != nil {
		return err
	}

	_, err = out.Write(indented)
	return err
}
