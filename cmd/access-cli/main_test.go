package main

import (
	"reflect"
	"testing"
)

func TestApplyGlobalFlags(t *testing.T) {
	originalEndpoint := rpcEndpoint
	defer func() { rpcEndpoint = originalEndpoint }()

	cases := []struct {
		name         string
		args         []string
		wantArgs     []string
		wantEndpoint string
		wantErr      bool
	}{
		{
			name:         "no_flags",
			args:         []string{"app", "get", "arcade"},
			wantArgs:     []string{"app", "get", "arcade"},
			wantEndpoint: originalEndpoint,
		},
		{
			name:         "separate_value",
			args:         []string{"--rpc", "http://node:8080", "app", "get", "arcade"},
			wantArgs:     []string{"app", "get", "arcade"},
			wantEndpoint: "http://node:8080",
		},
		{
			name:         "equals_value",
			args:         []string{"--rpc=http://node:9090", "token", "mint-info", "acc1mint"},
			wantArgs:     []string{"token", "mint-info", "acc1mint"},
			wantEndpoint: "http://node:9090",
		},
		{
			name:    "missing_value",
			args:    []string{"--rpc"},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rpcEndpoint = originalEndpoint
			got, err := applyGlobalFlags(tc.args)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.wantArgs) {
				t.Fatalf("args %v, want %v", got, tc.wantArgs)
			}
			if rpcEndpoint != tc.wantEndpoint {
				t.Fatalf("endpoint %q, want %q", rpcEndpoint, tc.wantEndpoint)
			}
		})
	}
}
