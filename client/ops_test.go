package client

import (
	"context"
	"testing"
	"time"
)

func TestKeyInfo_StoresStats(t *testing.T) {
	_, srv := newFakeAPI(t, byRoute(map[string]string{
		"key/info": `{"status":"OK","data":[{"max":100,"cur":3,"total_requests":50,"total_points":7}]}`,
	}))
	c := newTestClient(t, srv.URL, nil)

	info, err := c.KeyInfo(context.Background())
	if err != nil {
		t.Fatalf("KeyInfo: %v", err)
	}
	if info.Max != 100 || info.Current != 3 {
		t.Errorf("info = %+v", info)
	}

	stats, ok := c.KeyStats()
	if !ok {
		t.Fatal("KeyStats not stored")
	}
	if stats.Max != 100 || stats.Current != 3 || stats.TotalRequests != 50 || stats.TotalPoints != 7 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestKeyAuth_HashesPassword(t *testing.T) {
	api, srv := newFakeAPI(t, byRoute(map[string]string{
		"key/auth": `{"status":"OK","data":["project-key"]}`,
	}))
	c := newTestClient(t, srv.URL, nil)

	key, err := c.KeyAuth(context.Background(), "bob", "secret", "")
	if err != nil {
		t.Fatalf("KeyAuth: %v", err)
	}
	if key != "project-key" {
		t.Errorf("key = %s", key)
	}

	params := api.last(t).Calls[0].Params
	if params["pass"] != PasswordHash("secret") {
		t.Errorf("pass = %v", params["pass"])
	}
	if params["pass"] == "secret" {
		t.Error("password sent in clear")
	}
	if params["project"] != DefaultProject {
		t.Errorf("project = %v", params["project"])
	}
}

func TestPasswordHash(t *testing.T) {
	// md5 of the hex string d41d8cd98f00b204e9800998ecf8427e
	if got := PasswordHash(""); got != "74be16979710d4c4e7c6647856088456" {
		t.Errorf("PasswordHash(\"\") = %s", got)
	}
	if PasswordHash("a") == PasswordHash("b") {
		t.Error("different passwords share a hash")
	}
}

func TestCheckLink_Truthiness(t *testing.T) {
	tests := map[string]bool{
		`{"status":"OK","data":[1]}`:     true,
		`{"status":"OK","data":[0]}`:     false,
		`{"status":"OK","data":[true]}`:  true,
		`{"status":"OK","data":[false]}`: false,
		`{"status":"OK","data":[[]]}`:    false,
	}
	for body, want := range tests {
		_, srv := newFakeAPI(t, reply(body))
		c := newTestClient(t, srv.URL, nil)

		got, err := c.CheckLink(context.Background(), "http://letitbit.net/download/1")
		if err != nil {
			t.Fatalf("%s: CheckLink: %v", body, err)
		}
		if got != want {
			t.Errorf("%s: CheckLink = %v, want %v", body, got, want)
		}
	}
}

func TestFileListing_DefaultParams(t *testing.T) {
	api, srv := newFakeAPI(t, byRoute(map[string]string{
		"filemanager/listing": `{"status":"OK","data":[[{"uid":"u1","name":"a.avi","size":"1024"},{"uid":"u2","name":"b.avi","size":2048}]]}`,
	}))
	c := newTestClient(t, srv.URL, nil)

	files, err := c.FileListing(context.Background(), ListingOptions{})
	if err != nil {
		t.Fatalf("FileListing: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %d, want 2", len(files))
	}
	if files[0].String("uid") != "u1" || files[0].Int("size") != 1024 || files[1].Int("size") != 2048 {
		t.Errorf("files = %v", files)
	}

	params := api.last(t).Calls[0].Params
	if params["limit"] != float64(50) || params["page"] != float64(1) || params["folder"] != float64(0) {
		t.Errorf("params = %v", params)
	}
}

func TestFolders_KeyedObject(t *testing.T) {
	_, srv := newFakeAPI(t, byRoute(map[string]string{
		"filemanager/folders": `{"status":"OK","data":[{"2":{"name":"video"},"1":{"name":"docs"}}]}`,
	}))
	c := newTestClient(t, srv.URL, nil)

	folders, err := c.Folders(context.Background())
	if err != nil {
		t.Fatalf("Folders: %v", err)
	}
	if len(folders) != 2 || folders[0].String("name") != "docs" || folders[1].String("name") != "video" {
		t.Errorf("folders = %v", folders)
	}
}

func TestDeleteAndRename(t *testing.T) {
	api, srv := newFakeAPI(t, byRoute(map[string]string{
		"filemanager/delete": `{"status":"OK","data":[2]}`,
		"filemanager/rename": `{"status":"OK","data":[1]}`,
	}))
	c := newTestClient(t, srv.URL, nil)
	ctx := context.Background()

	n, err := c.Delete(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n != 2 {
		t.Errorf("removed = %d, want 2", n)
	}
	uids, _ := api.last(t).Calls[0].Params["uids"].([]interface{})
	if len(uids) != 2 || uids[0] != "u1" {
		t.Errorf("uids = %v", api.last(t).Calls[0].Params["uids"])
	}

	ok, err := c.Rename(ctx, "u1", "new.avi")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if !ok {
		t.Error("Rename = false")
	}
}

func TestAliases(t *testing.T) {
	api, srv := newFakeAPI(t, byRoute(map[string]string{
		"filemanager/aliases":    `{"status":"OK","data":[{"d41d8cd98f00b204e9800998ecf8427e":"uid-1"}]}`,
		"filemanager/vipaliases": `{"status":"OK","data":[{"d41d8cd98f00b204e9800998ecf8427e":"vip-1"}]}`,
	}))
	c := newTestClient(t, srv.URL, nil)
	files := map[string]int64{"d41d8cd98f00b204e9800998ecf8427e": 0}

	aliases, err := c.Aliases(context.Background(), files)
	if err != nil {
		t.Fatalf("Aliases: %v", err)
	}
	if aliases.String("d41d8cd98f00b204e9800998ecf8427e") != "uid-1" {
		t.Errorf("aliases = %v", aliases)
	}
	sent, _ := api.last(t).Calls[0].Params["files"].(map[string]interface{})
	if _, ok := sent["d41d8cd98f00b204e9800998ecf8427e"]; !ok {
		t.Errorf("files param = %v", api.last(t).Calls[0].Params)
	}

	vip, err := c.VipAliases(context.Background(), files)
	if err != nil {
		t.Fatalf("VipAliases: %v", err)
	}
	if vip.String("d41d8cd98f00b204e9800998ecf8427e") != "vip-1" {
		t.Errorf("vip = %v", vip)
	}
}

func TestUserOperations(t *testing.T) {
	api, srv := newFakeAPI(t, byRoute(map[string]string{
		"user/info":          `{"status":"OK","data":[{"login":"bob","points":12}]}`,
		"user/assume":        `{"status":"OK","data":[]}`,
		"user/register":      `{"status":"OK","data":[{"id":77}]}`,
		"user/aliases":       `{"status":"OK","data":[{"letitbit.net":11,"vip-file.com":12}]}`,
		"user/aliases_login": `{"status":"OK","data":["bob_lb"]}`,
	}))
	c := newTestClient(t, srv.URL, func(cfg *Config) { cfg.Project = "vip-file.com" })
	ctx := context.Background()

	info, err := c.UserInfo(ctx, nil)
	if err != nil {
		t.Fatalf("UserInfo: %v", err)
	}
	if info.String("login") != "bob" || info.Int("points") != 12 {
		t.Errorf("info = %v", info)
	}
	if api.last(t).Calls[0].Params != nil {
		t.Errorf("UserInfo(nil) sent params %v", api.last(t).Calls[0].Params)
	}

	if _, err := c.UserInfo(ctx, &Credentials{Login: "bob", Password: "hash"}); err != nil {
		t.Fatalf("UserInfo: %v", err)
	}
	if p := api.last(t).Calls[0].Params; p["login"] != "bob" || p["project"] != "vip-file.com" {
		t.Errorf("params = %v", p)
	}

	if err := c.AssumeUser(ctx, Credentials{Login: "alice", Password: "pw", Project: "letitbit.net"}); err != nil {
		t.Fatalf("AssumeUser: %v", err)
	}
	if p := api.last(t).Calls[0].Params; p["project"] != "letitbit.net" {
		t.Errorf("assume project = %v", p["project"])
	}

	reg, err := c.RegisterUser(ctx, Credentials{Login: "carol", Password: "pw"})
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if reg.Int("id") != 77 {
		t.Errorf("register = %v", reg)
	}

	aliases, err := c.UserAliases(ctx)
	if err != nil {
		t.Fatalf("UserAliases: %v", err)
	}
	if aliases.Int("vip-file.com") != 12 {
		t.Errorf("aliases = %v", aliases)
	}

	login, err := c.UserAliasesLogin(ctx, "")
	if err != nil {
		t.Fatalf("UserAliasesLogin: %v", err)
	}
	if login != "bob_lb" {
		t.Errorf("login = %s", login)
	}
}

func TestPreviewOperations(t *testing.T) {
	_, srv := newFakeAPI(t, byRoute(map[string]string{
		"preview/skymonk_link":  `{"status":"OK","data":["http://skymonk.example/setup.exe"]}`,
		"preview/flv_image":     `{"status":"OK","data":["http://img.example/u1.jpg"]}`,
		"download/direct_links": `{"status":"OK","data":[["http://s1.example/f","http://s2.example/f"]]}`,
	}))
	c := newTestClient(t, srv.URL, nil)
	ctx := context.Background()

	if link, err := c.SkymonkLink(ctx, "u1"); err != nil || link != "http://skymonk.example/setup.exe" {
		t.Errorf("SkymonkLink = %s, %v", link, err)
	}
	if img, err := c.FLVImage(ctx, "u1"); err != nil || img != "http://img.example/u1.jpg" {
		t.Errorf("FLVImage = %s, %v", img, err)
	}
	links, err := c.DirectLinks(ctx, "http://letitbit.net/download/1", "")
	if err != nil {
		t.Fatalf("DirectLinks: %v", err)
	}
	if len(links) != 2 {
		t.Errorf("links = %v", links)
	}
}

func TestSetFTPAutoFlag(t *testing.T) {
	api, srv := newFakeAPI(t, byRoute(map[string]string{
		"ftp/flag_auto": `{"status":"OK","data":[]}`,
	}))
	c := newTestClient(t, srv.URL, nil)

	if err := c.SetFTPAutoFlag(context.Background(), true); err != nil {
		t.Fatalf("SetFTPAutoFlag: %v", err)
	}
	if flag := api.last(t).Calls[0].Params["flag"]; flag != float64(1) {
		t.Errorf("flag = %v, want 1", flag)
	}
}

func TestListMethods_Cached(t *testing.T) {
	api, srv := newFakeAPI(t, byRoute(map[string]string{
		"list/controllers": `{"status":"OK","data":[["key","user"]]}`,
		"list/methods":     `{"status":"OK","data":[{"info":{"descr":"Key statistics","cost":0,"call":"key/info"}}]}`,
		"key/info":         `{"status":"OK","data":[{"max":1,"cur":0}]}`,
	}))
	c := newTestClient(t, srv.URL, func(cfg *Config) {
		cfg.CacheSize = 16
		cfg.CacheTTL = time.Minute
	})
	ctx := context.Background()

	all, err := c.AllMethods(ctx)
	if err != nil {
		t.Fatalf("AllMethods: %v", err)
	}
	if len(all) != 2 || all["key"]["info"].Description != "Key statistics" {
		t.Errorf("methods = %v", all)
	}
	first := len(api.requests())
	if first != 3 {
		t.Errorf("POSTs = %d, want 3", first)
	}

	if _, err := c.AllMethods(ctx); err != nil {
		t.Fatalf("AllMethods: %v", err)
	}
	if n := len(api.requests()); n != first {
		t.Errorf("POSTs after cached call = %d, want %d", n, first)
	}

	// account data is never cached
	c.KeyInfo(ctx)
	c.KeyInfo(ctx)
	if n := len(api.requests()); n != first+2 {
		t.Errorf("POSTs = %d, want %d", n, first+2)
	}
}

func TestListControllers_NotCachedByDefault(t *testing.T) {
	api, srv := newFakeAPI(t, byRoute(map[string]string{
		"list/controllers": `{"status":"OK","data":[["key"]]}`,
	}))
	c := newTestClient(t, srv.URL, nil)

	c.ListControllers(context.Background())
	c.ListControllers(context.Background())
	if n := len(api.requests()); n != 2 {
		t.Errorf("POSTs = %d, want 2", n)
	}
}
