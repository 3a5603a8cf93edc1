/**
 * Copyright 2025 ByteDance Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package log

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

type Level int32

const (
	DebugLevel Level = iota
	InfoLevel
	ErrorLevel
)

var logLevel int32 = int32(InfoLevel)

func SetLogLevel(l Level) {
	atomic.StoreInt32(&logLevel, int32(l))
}

func GetLogLevel() Level {
	return Level(atomic.LoadInt32(&logLevel))
}

func Debug(format string, args ...interface{}) {
	output(DebugLevel, "DEBUG", format, args...)
}

func Info(format string, args ...interface{}) {
	output(InfoLevel, "INFO", format, args...)
}

func Error(format string, args ...interface{}) {
	output(ErrorLevel, "ERROR", format, args...)
}

func output(l Level, tag string, format string, args ...interface{}) {
	if l < GetLogLevel() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprintf(os.Stderr, "[%s] %s %s", tag, time.Now().Format("2006-01-02 15:04:05"), msg)
}
